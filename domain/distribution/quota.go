package distribution

// Quota is the account storage reported by the remote side.
// A zero Limit means the account is unlimited.
type Quota struct {
	Limit int64
	Used  int64
}

// Unlimited reports whether the account has no storage cap
func (q Quota) Unlimited() bool {
	return q.Limit <= 0
}

// Free returns the bytes left, or -1 for an unlimited account
func (q Quota) Free() int64 {
	if q.Unlimited() {
		return -1
	}
	if free := q.Limit - q.Used; free > 0 {
		return free
	}
	return 0
}

// Fits reports whether n more bytes can be stored
func (q Quota) Fits(n int64) bool {
	return q.Unlimited() || q.Free() >= n
}
