package dto

// IPRange carries a CIDR network on the wire, for both range creation
// requests and listing responses.
type IPRange struct {
	Cidr string `json:"cidr"`
}
