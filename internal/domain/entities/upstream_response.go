package entities

// UpstreamResponse is the provider's raw reply. Any HTTP status is a valid
// response here; only transport failures are errors.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
