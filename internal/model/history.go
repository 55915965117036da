package model

import "time"

// DomainResult is a per-domain summary frozen into a cycle snapshot.
type DomainResult struct {
	DomainID     int     `json:"domainId"`
	DomainName   string  `json:"domainName"`
	MeanCurrent  float64 `json:"meanCurrent"`
	MeanTarget   float64 `json:"meanTarget"`
	MeanGap      float64 `json:"meanGap"`
	CriticalHigh int     `json:"criticalHigh"`
}

// CycleSnapshot is an immutable summary of one completed assessment
// pass. Snapshots are appended to the session history when a new cycle
// starts and never mutated afterwards.
type CycleSnapshot struct {
	ID          string         `json:"id"`
	StartedAt   time.Time      `json:"startedAt"`
	ClosedAt    time.Time      `json:"closedAt"`
	MeanCurrent float64        `json:"meanCurrent"`
	MeanTarget  float64        `json:"meanTarget"`
	MeanGap     float64        `json:"meanGap"`
	Domains     []DomainResult `json:"domains"`
}
