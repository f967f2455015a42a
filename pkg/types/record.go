// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the canonical record shapes, ingestion results, and
// analysis reports shared across the pipeline stages.
package types

import (
	"fmt"
	"strings"
	"time"
)

// RecordKind identifies the domain type of a canonical record.
type RecordKind string

const (
	KindPolitician  RecordKind = "politician"
	KindBill        RecordKind = "bill"
	KindLegalAct    RecordKind = "legal_act"
	KindProcurement RecordKind = "procurement"
	KindLobbyist    RecordKind = "lobbyist"
	KindElection    RecordKind = "election"
	KindArticle     RecordKind = "article"
)

// Kinds lists every canonical record kind in a stable order.
var Kinds = []RecordKind{
	KindPolitician, KindBill, KindLegalAct, KindProcurement,
	KindLobbyist, KindElection, KindArticle,
}

// Record is one normalized entity produced by a source adapter. NaturalKey
// must be stable across repeated ingestions of the same upstream entity; the
// store enforces uniqueness on it.
type Record interface {
	Kind() RecordKind
	NaturalKey() string
}

// Politician is a member of a legislature or government body.
type Politician struct {
	Name         string    `json:"name" yaml:"name"`
	Party        string    `json:"party,omitempty" yaml:"party,omitempty"`
	Jurisdiction string    `json:"jurisdiction" yaml:"jurisdiction"`
	Level        string    `json:"level" yaml:"level"`
	Role         string    `json:"role,omitempty" yaml:"role,omitempty"`
	Email        string    `json:"email,omitempty" yaml:"email,omitempty"`
	TermStart    time.Time `json:"term_start,omitzero" yaml:"term_start,omitempty"`
}

func (p Politician) Kind() RecordKind { return KindPolitician }

func (p Politician) NaturalKey() string {
	return keyJoin(p.Name, p.Jurisdiction, p.Level)
}

// Bill is a piece of legislation, keyed by number within a session.
type Bill struct {
	Number       string    `json:"number" yaml:"number"`
	Session      string    `json:"session" yaml:"session"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Status       string    `json:"status,omitempty" yaml:"status,omitempty"`
	Sponsor      string    `json:"sponsor,omitempty" yaml:"sponsor,omitempty"`
	IntroducedAt time.Time `json:"introduced_at,omitzero" yaml:"introduced_at,omitempty"`
	VotesFor     int       `json:"votes_for,omitempty" yaml:"votes_for,omitempty"`
	VotesAgainst int       `json:"votes_against,omitempty" yaml:"votes_against,omitempty"`
}

func (b Bill) Kind() RecordKind { return KindBill }

func (b Bill) NaturalKey() string { return keyJoin(b.Number, b.Session) }

// LegalAct is an adopted law or regulation, keyed by act number and year.
type LegalAct struct {
	Number    string    `json:"number" yaml:"number"`
	Year      int       `json:"year" yaml:"year"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	AdoptedAt time.Time `json:"adopted_at,omitzero" yaml:"adopted_at,omitempty"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
}

func (a LegalAct) Kind() RecordKind { return KindLegalAct }

func (a LegalAct) NaturalKey() string { return keyJoin(a.Number, fmt.Sprintf("%d", a.Year)) }

// ProcurementContract is an awarded public contract.
type ProcurementContract struct {
	ContractNumber string    `json:"contract_number" yaml:"contract_number"`
	Buyer          string    `json:"buyer,omitempty" yaml:"buyer,omitempty"`
	Supplier       string    `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	Subject        string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Value          float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Currency       string    `json:"currency,omitempty" yaml:"currency,omitempty"`
	AwardedAt      time.Time `json:"awarded_at,omitzero" yaml:"awarded_at,omitempty"`
}

func (c ProcurementContract) Kind() RecordKind { return KindProcurement }

func (c ProcurementContract) NaturalKey() string { return keyJoin(c.ContractNumber) }

// Lobbyist is a registered lobbyist or lobbying organization.
type Lobbyist struct {
	RegistryNumber string    `json:"registry_number" yaml:"registry_number"`
	Name           string    `json:"name,omitempty" yaml:"name,omitempty"`
	Organization   string    `json:"organization,omitempty" yaml:"organization,omitempty"`
	Clients        []string  `json:"clients,omitempty" yaml:"clients,omitempty"`
	RegisteredAt   time.Time `json:"registered_at,omitzero" yaml:"registered_at,omitempty"`
}

func (l Lobbyist) Kind() RecordKind { return KindLobbyist }

func (l Lobbyist) NaturalKey() string { return keyJoin(l.RegistryNumber) }

// Election is a scheduled or past election.
type Election struct {
	ElectionID   string    `json:"election_id,omitempty" yaml:"election_id,omitempty"`
	Type         string    `json:"type" yaml:"type"`
	Date         time.Time `json:"date" yaml:"date"`
	Jurisdiction string    `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
}

func (e Election) Kind() RecordKind { return KindElection }

// NaturalKey prefers the upstream election identifier; schedules that lack
// one fall back to type plus date.
func (e Election) NaturalKey() string {
	if e.ElectionID != "" {
		return keyJoin(e.ElectionID)
	}
	return keyJoin(e.Type, e.Date.UTC().Format("2006-01-02"))
}

// Article is a news article; the source URL is its identity across ingestions.
type Article struct {
	// ID is the store row id, zero until the article has been persisted.
	ID          int64     `json:"id,omitempty" yaml:"id,omitempty"`
	URL         string    `json:"url" yaml:"url"`
	Title       string    `json:"title" yaml:"title"`
	Summary     string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Body        string    `json:"body,omitempty" yaml:"body,omitempty"`
	SourceName  string    `json:"source_name" yaml:"source_name"`
	Published   time.Time `json:"published,omitzero" yaml:"published,omitempty"`
	Credibility int       `json:"credibility,omitempty" yaml:"credibility,omitempty"`
	Bias        Bias      `json:"bias,omitempty" yaml:"bias,omitempty"`
}

func (a Article) Kind() RecordKind { return KindArticle }

func (a Article) NaturalKey() string { return a.URL }

// keyJoin builds a natural key from its parts, normalized for case and
// whitespace so upstream formatting drift does not fork identities.
func keyJoin(parts ...string) string {
	norm := make([]string, 0, len(parts))
	for _, p := range parts {
		norm = append(norm, strings.ToLower(strings.Join(strings.Fields(p), " ")))
	}
	return strings.Join(norm, "|")
}
