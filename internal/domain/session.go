package domain

// Session is the stateless identity snapshot embedded in a signed token.
// Balance is a snapshot taken at authentication time; callers needing a
// fresh value go through the balance lookup instead.
type Session struct {
	UserID  string
	Email   string
	Name    string
	Balance float64
}
