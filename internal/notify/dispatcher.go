package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ygyuri/foodbank-management-system/internal/model"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

// Store persists in-app notifications.
type Store interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Directory resolves a user id to an address.
type Directory interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Mailer sends one email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Pusher forwards a stored notification to live connections of a user.
type Pusher interface {
	Push(userID string, payload any)
}

// Notifier is what the workflow services depend on.
type Notifier interface {
	Dispatch(ctx context.Context, e Event) DispatchResult
}

// Delivery outcome of one (user, channel) pair.
type Delivery struct {
	UserID  string
	Channel Channel
	Err     error
}

// DispatchResult every attempted delivery of one event.
type DispatchResult struct {
	Deliveries []Delivery
}

// Failed returns the deliveries that did not go through.
func (r DispatchResult) Failed() []Delivery {
	var out []Delivery
	for _, d := range r.Deliveries {
		if d.Err != nil {
			out = append(out, d)
		}
	}
	return out
}

// Options toggles channels.
type Options struct {
	InAppEnabled bool
	EmailEnabled bool
}

// Dispatcher delivers events according to the routing table.
type Dispatcher struct {
	store  Store
	dir    Directory
	mailer Mailer
	pusher Pusher
	opts   Options
	logger *zap.Logger
}

// NewDispatcher mailer and pusher may be nil, which disables that leg.
func NewDispatcher(store Store, dir Directory, mailer Mailer, pusher Pusher, opts Options, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		dir:    dir,
		mailer: mailer,
		pusher: pusher,
		opts:   opts,
		logger: logger,
	}
}

// Dispatch delivers e. It never fails: the transition is already committed, so every
// channel error ends up in the log and in the result.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) DispatchResult {
	var result DispatchResult
	if e.IsZero() {
		return result
	}
	// delivery outlives a cancelled request
	ctx = context.WithoutCancel(ctx)

	for _, route := range RoutesFor(e.Kind) {
		userID, ok := e.Recipients[route.Audience]
		if !ok {
			continue
		}
		msg := Render(e, route.Audience)

		if route.InApp && d.opts.InAppEnabled {
			err := d.deliverInApp(ctx, e, userID, msg)
			if err != nil {
				d.logger.Warn("in-app notification failed",
					zap.String("event", string(e.Kind)),
					zap.String("user_id", userID),
					zap.Error(err),
				)
			}
			result.Deliveries = append(result.Deliveries, Delivery{UserID: userID, Channel: ChannelInApp, Err: err})
		}

		if route.Email && d.opts.EmailEnabled && d.mailer != nil {
			err := d.deliverEmail(ctx, userID, msg)
			if err != nil {
				d.logger.Error("email notification failed",
					zap.String("event", string(e.Kind)),
					zap.String("user_id", userID),
					zap.Error(err),
				)
			}
			result.Deliveries = append(result.Deliveries, Delivery{UserID: userID, Channel: ChannelEmail, Err: err})
		}
	}
	return result
}

func (d *Dispatcher) deliverInApp(ctx context.Context, e Event, userID string, msg Message) error {
	var data datatypes.JSON
	if len(e.Data) > 0 {
		raw, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("%w: encode payload: %v", pkgerrors.ErrNotificationDelivery, err)
		}
		data = datatypes.JSON(raw)
	}

	relatedType := string(e.Subject)
	relatedID := e.SubjectID
	n := &model.Notification{
		UserID:      userID,
		Type:        string(e.Kind),
		Title:       msg.Title,
		Content:     msg.Content,
		Data:        data,
		RelatedType: &relatedType,
		RelatedID:   &relatedID,
	}
	if err := d.store.Create(ctx, n); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrNotificationDelivery, err)
	}
	if d.pusher != nil {
		d.pusher.Push(userID, n)
	}
	return nil
}

func (d *Dispatcher) deliverEmail(ctx context.Context, userID string, msg Message) error {
	user, err := d.dir.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: resolve recipient: %v", pkgerrors.ErrNotificationDelivery, err)
	}
	if user.Email == "" {
		return fmt.Errorf("%w: user has no email", pkgerrors.ErrNotificationDelivery)
	}
	body := fmt.Sprintf("<p>Hello %s,</p><p>%s</p>", html.EscapeString(user.Name), html.EscapeString(msg.Content))
	if err := d.mailer.Send(ctx, user.Email, msg.Title, body); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrNotificationDelivery, err)
	}
	return nil
}
