package pricefeed

// refRequest is the body of a reference-data lookup against the settle-price
// gateway. Field is a feed mnemonic such as PX_SETTLE.
type refRequest struct {
	Tickers []string `json:"tickers"`
	Field   string   `json:"field"`
}

// refResponse is the gateway's answer. Tickers the feed has no value for are
// simply absent from Prices.
type refResponse struct {
	Prices []refPrice `json:"prices"`
}

type refPrice struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
}
