// Package models defines the gorm tables owned by the economy feature: balance records,
// unlocked achievements, donation and mission idempotency markers, mission participant
// attribution and the reward history.
package models
