package api

import (
	"time"

	"github.com/KhaledTDev/islamhouse/pkg/aggregator"
)

type ListCategoriesResponse struct {
	Categories []aggregator.CategoryInfo `json:"categories"`
	Count      int                       `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
