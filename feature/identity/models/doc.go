// Package models defines the identity tables: profiles, their game and chat name
// history, and verification events.
package models
