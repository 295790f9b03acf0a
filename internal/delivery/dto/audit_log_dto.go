package dto

import (
	"time"

	"novacare-booking/internal/domain/entity"
)

type AuditLogListQuery struct {
	Action   string `json:"action" validate:"omitempty,max=100"`
	EntityID string `json:"entity_id" validate:"omitempty,max=100"`
	Page     int    `json:"page" validate:"gte=0"`
	Limit    int    `json:"limit" validate:"gte=0,lte=100"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
