package api

const (
	paramOrderCode   = "code"
	paramClientID    = "client_id"
	paramPortfolioID = "portfolio_id"

	queryStartDate = "start-date"
	queryEndDate   = "end-date"
)

const headerRequestID = "X-Request-ID"

const (
	msgInternalError  = "internal server error"
	msgInvalidJSON    = "request body must be valid JSON"
	msgInvalidContent = "Content-Type must be application/json"
	msgTimeout        = "request timed out"
)

type ctxKey int

const ctxRequestID ctxKey = iota
