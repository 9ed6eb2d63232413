package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Placeholder credentials shipped in example env files.
const (
	placeholderUser     = "your_email@gmail.com"
	placeholderPassword = "your_app_password_here"
)

// defaultCommandTimeout bounds each IMAP command when Settings.Timeout is zero.
const defaultCommandTimeout = time.Minute

// Settings describes the mailbox to poll.
type Settings struct {
	User     string
	Password string
	Host     string
	Port     int
	TLS      bool
	Mailbox  string
	// Timeout bounds each IMAP command.
	Timeout time.Duration
}

// Configured reports whether real credentials are set.
func (s Settings) Configured() bool {
	if s.User == "" || s.Password == "" {
		return false
	}
	return s.User != placeholderUser && s.Password != placeholderPassword
}

// Source lists unseen messages and acknowledges them one by one.
// Listing must not change the seen state.
type Source interface {
	Unseen(ctx context.Context) ([]RawMessage, error)
	MarkSeen(ctx context.Context, uid uint32) error
	Close() error
}

// Dialer opens a Source.
type Dialer func(ctx context.Context, settings Settings) (Source, error)

// IMAPSource is a Source backed by an IMAP mailbox.
type IMAPSource struct {
	client *client.Client
	stop   func() bool
}

// DialIMAP connects, logs in and selects the configured mailbox read-write.
// The connection is torn down when ctx ends.
func DialIMAP(ctx context.Context, settings Settings) (Source, error) {
	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	var (
		c   *client.Client
		err error
	)
	if settings.TLS {
		c, err = client.DialWithDialerTLS(dialer, addr, &tls.Config{ServerName: settings.Host})
	} else {
		c, err = client.DialWithDialer(dialer, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	c.Timeout = settings.Timeout
	if c.Timeout <= 0 {
		c.Timeout = defaultCommandTimeout
	}
	stop := context.AfterFunc(ctx, func() { _ = c.Terminate() })

	if err = c.Login(settings.User, settings.Password); err != nil {
		stop()
		_ = c.Logout()
		return nil, fmt.Errorf("login: %w", err)
	}

	mailbox := settings.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err = c.Select(mailbox, false); err != nil {
		stop()
		_ = c.Logout()
		return nil, fmt.Errorf("select %s: %w", mailbox, err)
	}
	return &IMAPSource{client: c, stop: stop}, nil
}

// Unseen fetches all unseen messages with BODY.PEEK so they stay unseen.
func (s *IMAPSource) Unseen(ctx context.Context) ([]RawMessage, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqSet, items, messages)
	}()

	raws := make([]RawMessage, 0, len(uids))
	var readErr error
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil || readErr != nil {
			continue
		}
		data, err := io.ReadAll(body)
		if err != nil {
			readErr = fmt.Errorf("read message %d: %w", msg.Uid, err)
			continue
		}
		raws = append(raws, RawMessage{UID: msg.Uid, Body: data})
	}
	if err = <-done; err != nil {
		return nil, fmt.Errorf("fetch unseen: %w", err)
	}
	if readErr != nil {
		return nil, readErr
	}
	return raws, ctx.Err()
}

// MarkSeen sets the \Seen flag on one message.
func (s *IMAPSource) MarkSeen(_ context.Context, uid uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := s.client.UidStore(seqSet, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return fmt.Errorf("mark %d seen: %w", uid, err)
	}
	return nil
}

// Close logs out.
func (s *IMAPSource) Close() error {
	if s.stop != nil && !s.stop() {
		// ctx already ended and the connection is gone
		return nil
	}
	return s.client.Logout()
}
