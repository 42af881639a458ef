package types

import "strconv"

// Identity is an externally supplied social profile. It is shown on screen
// and used for sharing only.
type Identity struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	PfpURL      string `json:"pfpUrl,omitempty"`
}

// Label returns the best human readable name for the identity
func (id *Identity) Label() string {
	switch {
	case id == nil:
		return ""
	case id.DisplayName != "":
		return id.DisplayName
	case id.Username != "":
		return "@" + id.Username
	case id.FID != 0:
		return "fid:" + strconv.FormatInt(id.FID, 10)
	default:
		return ""
	}
}
