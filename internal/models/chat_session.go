// internal/models/chat_session.go
package models

import "time"

// ChatSession is one titled entry in the conversation history list.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials are collected by the connect dialog. Password is never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Region   string `json:"region"`
}

// Redacted returns a copy safe to store.
func (c Credentials) Redacted() Credentials {
	c.Password = ""
	return c
}
