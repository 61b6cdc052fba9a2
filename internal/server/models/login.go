package models

import "time"

const LoginStatusSuccess = "success"

// LoginRecord is an audit entry written after a successful login.
type LoginRecord struct {
	Email     string
	LoginTime time.Time
	Status    string
}
