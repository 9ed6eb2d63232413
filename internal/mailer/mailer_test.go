package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/smtp"
	"testing"
	"time"

	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw, err := buildMessage("rfp@buyer.example", "acme@example.com", "✓ Proposal Accepted - Laptops", "<p>Hello</p>", time.Now())
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "✓ Proposal Accepted - Laptops", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "acme@example.com", to[0].Address)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", string(body))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(Settings{Host: "smtp.example.com", Port: 587, User: "rfp@buyer.example", Password: "secret"})

	var gotAddr, gotFrom string
	var gotTo []string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo = addr, from, to
		assert.NotNil(t, a)
		assert.Contains(t, string(msg), "RFP: Laptops - Ref: RFP-1-1")
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "acme@example.com", "RFP: Laptops - Ref: RFP-1-1", "<p>x</p>"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "rfp@buyer.example", gotFrom)
	assert.Equal(t, []string{"acme@example.com"}, gotTo)
}

func TestSMTPMailer_Errors(t *testing.T) {
	err := NewSMTPMailer(Settings{}).Send(context.Background(), "a@b.c", "s", "b")
	assert.ErrorIs(t, err, ErrNotConfigured)

	m := NewSMTPMailer(Settings{Host: "smtp.example.com", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 mailbox unavailable")
	}
	err = m.Send(context.Background(), "a@b.c", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "550 mailbox unavailable")
}

func TestRenderRFP(t *testing.T) {
	budget := "$50,000"
	deadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rfp := models.RFP{
		ID:          7,
		Title:       "Laptops",
		Description: "Laptops for <new> hires",
		Requirements: []models.Requirement{
			{Item: "Laptop", Specification: "16GB RAM", Quantity: 20},
		},
		Budget:   &budget,
		Deadline: &deadline,
	}

	html, err := RenderRFP(rfp, "RFP-7-1700000000000")
	require.NoError(t, err)
	assert.Contains(t, html, "RFP-7-1700000000000")
	assert.Contains(t, html, "2025-03-01")
	assert.Contains(t, html, "Laptop - 16GB RAM (Quantity: 20)")
	assert.Contains(t, html, "$50,000")
	assert.Contains(t, html, "Laptops for &lt;new&gt; hires")
	assert.Contains(t, html, "Delivery Time")
	assert.NotContains(t, html, "Special Requirements")
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "RFP: Laptops - Ref: RFP-7-1", RFPSubject("Laptops", "RFP-7-1"))
	assert.Equal(t, "✓ Proposal Accepted - Laptops", StatusSubject(models.AcceptedProposal, "Laptops"))
	assert.Equal(t, "Proposal Update - Laptops", StatusSubject(models.RejectedProposal, "Laptops"))
}

func TestRenderStatus(t *testing.T) {
	html, err := RenderStatus("Dear Ann,\nThank you.")
	require.NoError(t, err)
	assert.Contains(t, html, ">Dear Ann,</p>")
	assert.Contains(t, html, ">Thank you.</p>")
}
