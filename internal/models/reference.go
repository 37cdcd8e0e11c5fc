package models

import "github.com/shopspring/decimal"

// SecurityReference is one row of the security master. The four broker code
// columns are alternate identifiers for the same canonical security; an input
// trade may match on any of them.
type SecurityReference struct {
	SecurityCode   string
	SecurityName   string
	PhillipCode    string
	RJContractCode string
	CQGCode        string
	TickValue      decimal.NullDecimal
}

// IdentifierColumnCount is the number of alternate identifier spaces the
// resolver probes per trade (the three broker codes plus SecurityCode itself).
const IdentifierColumnCount = 4

// ClientReference maps a raw client identifier from the broker file to the
// canonical client code used downstream.
type ClientReference struct {
	ClientInfo string
	ClientCode string
}
