package response

type ReserveRankResponse struct {
	EventID uint `json:"event_id"`
	Rank    int  `json:"rank"`
}

// TicketPriceResponse carries the price the member would pay right now,
// after the volunteer-task discount.
type TicketPriceResponse struct {
	TicketID uint  `json:"ticket_id"`
	Price    int64 `json:"price"`
}
