package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_MatchesByType(t *testing.T) {
	r := NewHandlerRegistry()
	h := newTestHandler()
	r.Register(h, "DividendDeclared", "CapitalUnlocked")

	assert.Equal(t, 1, len(r.GetHandlers("DividendDeclared")))
	assert.Equal(t, 1, len(r.GetHandlers("CapitalUnlocked")))
	assert.Empty(t, r.GetHandlers("InvoiceIssued"))
	assert.Equal(t, []string{"CapitalUnlocked", "DividendDeclared"}, r.EventTypes())
}

func TestHandlerRegistry_WildcardReceivesEverything(t *testing.T) {
	r := NewHandlerRegistry()
	all := newTestHandler()
	r.Register(all)

	assert.Len(t, r.GetHandlers("CompanyCreated"), 1)
	assert.Len(t, r.GetHandlers("anything"), 1)
	assert.Empty(t, r.EventTypes())
}

func TestHandlerRegistry_HandlerDeliveredOnce(t *testing.T) {
	r := NewHandlerRegistry()
	h := newTestHandler()

	r.Register(h, "SharesChanged")
	r.Register(h, "SharesChanged", "CompanyCreated")
	assert.Equal(t, 1, r.Len())
	assert.Len(t, r.GetHandlers("SharesChanged"), 1)
	assert.Len(t, r.GetHandlers("CompanyCreated"), 1)

	// Widening to every event, then narrowing again, keeps the wildcard
	r.Register(h)
	r.Register(h, "SharesChanged")
	assert.Len(t, r.GetHandlers("PayrollApproved"), 1)
	assert.Equal(t, 1, r.Len())
}

func TestHandlerRegistry_PreservesRegistrationOrder(t *testing.T) {
	r := NewHandlerRegistry()
	first := newTestHandler()
	second := newTestHandler()
	third := newTestHandler()

	r.Register(first, "InvoiceIssued")
	r.Register(second)
	r.Register(third, "InvoiceIssued")

	got := r.GetHandlers("InvoiceIssued")
	if assert.Len(t, got, 3) {
		assert.Same(t, first, got[0])
		assert.Same(t, second, got[1])
		assert.Same(t, third, got[2])
	}
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	keep := newTestHandler()
	drop := newTestHandler()
	r.Register(keep, "InvoiceIssued")
	r.Register(drop, "InvoiceIssued")
	r.Register(drop)

	r.Unregister(drop)

	got := r.GetHandlers("InvoiceIssued")
	if assert.Len(t, got, 1) {
		assert.Same(t, keep, got[0])
	}
	assert.Equal(t, 1, r.Len())

	// Unknown handlers are ignored
	r.Unregister(newTestHandler())
	assert.Equal(t, 1, r.Len())
}
