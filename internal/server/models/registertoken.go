package models

// RegisterToken is a single-use admission code provisioned out of band
// (see cmd/tokenctl). It is deleted atomically when a registration succeeds.
type RegisterToken struct {
	Token string `json:"token"`
}
