package dashboard

import (
	"context"
	"log/slog"

	"github.com/miniBill/sdc-map/crypto"
	"github.com/miniBill/sdc-map/record"
)

// State is the admin decryption flow's lifecycle.
type State int

const (
	// AwaitingKey means no decryption was attempted yet.
	AwaitingKey State = iota
	// Decrypting means a fetch plus bulk decryption is in progress.
	Decrypting
	// Decrypted means the flow holds a recovered record list.
	Decrypted
	// FlowFailed means the fetch itself failed; per-record failures never
	// put the flow here.
	FlowFailed
)

// String returns the state name for status display.
func (s State) String() string {
	switch s {
	case AwaitingKey:
		return "awaiting key"
	case Decrypting:
		return "decrypting"
	case Decrypted:
		return "decrypted"
	case FlowFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Flow drives the fetch, decrypt and decode pipeline. It is the only owner
// of the decrypted record list; callers read Records after Decrypt returns.
type Flow struct {
	client *Client
	log    *slog.Logger

	state   State
	records []record.Record
	lastErr *NetworkError
}

// NewFlow creates a flow in the AwaitingKey state.
func NewFlow(client *Client, log *slog.Logger) *Flow {
	return &Flow{client: client, log: log, state: AwaitingKey}
}

// State returns the flow's current state.
func (f *Flow) State() State {
	return f.state
}

// Err returns the transport error that put the flow in FlowFailed, if any.
func (f *Flow) Err() *NetworkError {
	return f.lastErr
}

// Records returns the recovered records. The slice is replaced wholesale by
// a re-run of Decrypt and must not be mutated by callers.
func (f *Flow) Records() []record.Record {
	return f.records
}

// Decrypt fetches every stored ciphertext and attempts to open and decode
// each with the operator's secret key. Entries that cannot be decrypted or
// decoded are dropped; one bad record must not block viewing the rest.
func (f *Flow) Decrypt(ctx context.Context, adminKey string, secretKey crypto.PrivateKey) error {
	f.state = Decrypting
	f.records = nil
	f.lastErr = nil

	answers, netErr := f.client.FetchAnswers(ctx, adminKey)
	if netErr != nil {
		f.state = FlowFailed
		f.lastErr = netErr
		return netErr
	}

	recovered := make([]record.Record, 0, len(answers))
	dropped := 0
	for id, submission := range answers {
		plaintext, err := crypto.Open(crypto.Envelope(submission.Encrypted), secretKey)
		if err != nil {
			dropped++
			continue
		}

		r, err := record.Decode(plaintext)
		if err != nil {
			dropped++
			continue
		}

		r.SubmissionID = id
		recovered = append(recovered, r)
	}

	if dropped > 0 {
		f.log.Warn("records dropped during bulk decryption", "dropped", dropped, "recovered", len(recovered))
	}

	f.records = recovered
	f.state = Decrypted
	return nil
}
