// Package profile looks up Minecraft player identities for avatar thumbnails.
//
// Lookups are best effort: when the profile API cannot be reached, or does
// not know the name, the caller still gets the offline identity.
package profile

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/keshon/account-market/internal/telemetry"
	"github.com/keshon/account-market/pkg/retrylimit"
)

var errNoProfile = errors.New("no such profile")

// Identity is a player's online ID, when known, and the offline ID derived
// from the name. Both are 32 hex digits without dashes.
type Identity struct {
	Username  string
	OnlineID  string
	OfflineID string
}

// ID prefers the online ID.
func (i Identity) ID() string {
	if i.OnlineID != "" {
		return i.OnlineID
	}
	return i.OfflineID
}

type Options struct {
	APIURL    string
	AvatarURL string
	// Rate is the starting number of API requests per second.
	Rate    float64
	Timeout time.Duration
	Client  *http.Client
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

type Resolver struct {
	apiURL    string
	avatarURL string
	timeout   time.Duration
	client    *http.Client
	limiter   *retrylimit.Limiter
	group     singleflight.Group
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

func NewResolver(opts Options) *Resolver {
	if opts.Rate <= 0 {
		opts.Rate = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := rate.Limit(opts.Rate)
	return &Resolver{
		apiURL:    opts.APIURL,
		avatarURL: opts.AvatarURL,
		timeout:   opts.Timeout,
		client:    opts.Client,
		limiter:   retrylimit.NewLimiter(r, r/4, r*2),
		metrics:   opts.Metrics,
		logger:    opts.Logger.With("component", "profile"),
	}
}

// Resolve never fails; errors only leave OnlineID empty.
func (r *Resolver) Resolve(ctx context.Context, username string) Identity {
	id := Identity{Username: username, OfflineID: OfflineID(username)}
	if r.apiURL == "" {
		return id
	}

	// the shared call outlives any one caller; fetch applies its own timeout
	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(strings.ToLower(username), func() (any, error) {
		return r.fetch(detached, username)
	})
	var (
		v   any
		err error
	)
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	switch {
	case err == nil:
		id.OnlineID = v.(string)
		r.metrics.ObserveProfileLookup("online")
	case errors.Is(err, errNoProfile):
		r.metrics.ObserveProfileLookup("offline")
	default:
		r.logger.Debug("Profile lookup failed", "username", username, "error", err)
		r.metrics.ObserveProfileLookup("error")
	}
	return id
}

// AvatarURL fills the avatar template with the identity's ID.
func (r *Resolver) AvatarURL(id Identity) string {
	if r.avatarURL == "" {
		return ""
	}
	return strings.ReplaceAll(r.avatarURL, "$uuid", id.ID())
}

func (r *Resolver) fetch(ctx context.Context, username string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var online string
	err := retrylimit.Do(ctx, r.limiter, retrylimit.DefaultPolicy(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL+url.PathEscape(username), nil)
		if err != nil {
			return err
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNoContent, resp.StatusCode == http.StatusNotFound:
			return errNoProfile
		case resp.StatusCode != http.StatusOK:
			return &retrylimit.StatusError{Code: resp.StatusCode}
		}

		var body struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decoding profile: %w", err)
		}
		if body.ID == "" {
			return errNoProfile
		}
		online = strings.ReplaceAll(body.ID, "-", "")
		return nil
	})
	return online, err
}

// OfflineID is the ID an offline-mode server assigns to username: a version 3
// UUID over the MD5 of "OfflinePlayer:<username>".
func OfflineID(username string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	id, _ := uuid.FromBytes(sum[:])
	id[6] = (id[6] & 0x0f) | 0x30
	id[8] = (id[8] & 0x3f) | 0x80
	return hex.EncodeToString(id[:])
}
