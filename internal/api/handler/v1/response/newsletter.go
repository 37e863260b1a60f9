package response

type CreateNewsletterResponse struct {
	ID        uint `json:"id"`
	Total     int  `json:"total"`
	BatchSize int  `json:"batch_size"`
}
