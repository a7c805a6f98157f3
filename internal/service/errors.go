package service

import "errors"

var (
	// ErrIssueNotFound возвращается, если обращение с указанным ID не существует
	ErrIssueNotFound = errors.New("issue not found")
	// ErrReporterNotFound возвращается, если автор обращения неизвестен
	ErrReporterNotFound = errors.New("reporter not found")
)
