package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ChhatbarPooja/crm-api/internal/core/pagination"
)

// All success responses share the {"success":true, ...} envelope; errors
// are rendered by the central HTTP error handler as
// {"success":false,"message":...}.

type dataEnvelope struct {
	Success    bool            `json:"success"`
	Count      *int            `json:"count,omitempty"`
	Pagination *paginationInfo `json:"pagination,omitempty"`
	Data       any             `json:"data"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type pageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// paginationInfo mirrors the list envelope's pagination object: next/prev
// are present only when the neighbouring page exists.
type paginationInfo struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

func toPaginationInfo(p pagination.Page) *paginationInfo {
	info := &paginationInfo{}
	if p.Next != nil {
		info.Next = &pageRef{Page: p.Next.Page, Limit: p.Next.Limit}
	}
	if p.Prev != nil {
		info.Prev = &pageRef{Page: p.Prev.Page, Limit: p.Prev.Limit}
	}
	return info
}

func respondData(c echo.Context, code int, data any) error {
	return c.JSON(code, dataEnvelope{Success: true, Data: data})
}

func respondPage(c echo.Context, code int, data any, count int, p pagination.Page) error {
	return c.JSON(code, dataEnvelope{
		Success:    true,
		Count:      &count,
		Pagination: toPaginationInfo(p),
		Data:       data,
	})
}

func respondMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, messageEnvelope{Success: true, Message: msg})
}
