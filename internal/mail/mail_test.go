package mail

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.From = "reports@example.com"
	return cfg
}

func TestMessageCarriesAttachment(t *testing.T) {
	s := NewSender(testConfig())

	var buf bytes.Buffer
	_, err := s.Message([]byte("%PDF-1.3 body"), "client@example.com").WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "To: client@example.com")
	assert.Contains(t, raw, "From: reports@example.com")
	assert.Contains(t, raw, "Subject: Fire Inspection Report")
	assert.Contains(t, raw, `filename="fire_safety_report.pdf"`)
	assert.Contains(t, raw, "application/pdf")
}

func TestSendReport(t *testing.T) {
	d := &recordingDialer{}
	s := NewSender(testConfig())
	s.dialer = d

	require.NoError(t, s.SendReport([]byte("%PDF"), "client@example.com"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"client@example.com"}, d.sent[0].GetHeader("To"))
}

func TestSendReportSurfacesFailure(t *testing.T) {
	d := &recordingDialer{err: errors.New("535 auth failed")}
	s := NewSender(testConfig())
	s.dialer = d

	err := s.SendReport([]byte("%PDF"), "client@example.com")
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestSendReportNotConfigured(t *testing.T) {
	s := NewSender(DefaultConfig())

	err := s.SendReport([]byte("%PDF"), "client@example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendReportNeedsRecipient(t *testing.T) {
	s := NewSender(testConfig())
	s.dialer = &recordingDialer{}

	assert.Error(t, s.SendReport([]byte("%PDF"), ""))
}
