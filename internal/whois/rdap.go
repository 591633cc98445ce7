package whois

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"github.com/taxlien/domaincheck/internal/model"
)

// RDAPQuerier performs an RDAP domain query, allowing dependency injection
// for testing with mock implementations
type RDAPQuerier interface {
	QueryDomain(domain string) (*rdap.Domain, error)
}

// networkRDAPQuerier wraps the openrdap client with its default bootstrap
type networkRDAPQuerier struct {
	client rdap.Client
}

func (q *networkRDAPQuerier) QueryDomain(domain string) (*rdap.Domain, error) {
	return q.client.QueryDomain(domain)
}

// RDAP event actions defined by RFC 9083
const (
	eventRegistration = "registration"
	eventExpiration   = "expiration"
	eventLastChanged  = "last changed"
)

// lookupRDAP queries the RDAP registry and maps the response onto WHOISData.
// The client library does not take a context, so the call runs in a goroutine
// and is abandoned on cancellation.
func (c *Client) lookupRDAP(ctx context.Context, domain string) (*model.WHOISData, error) {
	type result struct {
		dom *rdap.Domain
		err error
	}
	ch := make(chan result, 1)
	go func() {
		dom, err := c.rdap.QueryDomain(domain)
		ch <- result{dom: dom, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	if res.err != nil {
		var clientErr *rdap.ClientError
		if errors.As(res.err, &clientErr) && clientErr.Type == rdap.ObjectDoesNotExist {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("rdap query failed: %w", res.err)
	}
	if res.dom == nil {
		return nil, errors.New("rdap returned no domain object")
	}

	return mapRDAPDomain(domain, res.dom), nil
}

// mapRDAPDomain converts an RDAP domain object into WHOISData.
// Registries sometimes report an event action more than once; the earliest
// date wins for registration and the latest for expiration and last-changed,
// matching how duplicate WHOIS date fields are resolved.
func mapRDAPDomain(domain string, dom *rdap.Domain) *model.WHOISData {
	data := &model.WHOISData{
		Domain: domain,
		Status: dom.Status,
	}

	for _, event := range dom.Events {
		date := parseDate(event.Date)
		if date == nil {
			continue
		}
		switch strings.ToLower(event.Action) {
		case eventRegistration:
			data.CreatedDate = earlierOf(data.CreatedDate, date)
		case eventExpiration:
			data.ExpirationDate = laterOf(data.ExpirationDate, date)
		case eventLastChanged:
			data.UpdatedDate = laterOf(data.UpdatedDate, date)
		}
	}

	var servers []string
	for _, ns := range dom.Nameservers {
		servers = append(servers, ns.LDHName)
	}
	data.NameServers = normalizeNameServers(servers)

	for _, entity := range dom.Entities {
		if !hasRole(entity.Roles, "registrar") {
			continue
		}
		if entity.VCard != nil {
			if name := entity.VCard.Name(); name != "" {
				data.Registrar = name
				break
			}
		}
	}

	return data
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func earlierOf(current, candidate *time.Time) *time.Time {
	if current == nil || candidate.Before(*current) {
		return candidate
	}
	return current
}

func laterOf(current, candidate *time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		return candidate
	}
	return current
}
