package response

import (
	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
