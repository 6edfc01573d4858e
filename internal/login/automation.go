// Package login drives a browser through the retailer's hosted login page to
// obtain an authorization code, and exchanges it for the initial token pair.
//
// The flow is deliberately simple: submit credentials, race captcha detection
// against navigation for a few seconds, let a human solve the captcha when
// one shows up, and wait for the redirect-carried code with a hard ceiling.
// It automates somebody else's undocumented login page, so it breaks when
// they redesign it; keep the selectors in one place.
package login

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"bonnetje/internal/core"
)

const (
	authorizeURL = "https://login.ah.nl/secure/oauth/authorize?client_id=appie&redirect_uri=appie://login-exit&response_type=code"

	usernameSelector = "#username"
	passwordSelector = "#password"
	submitSelector   = `button[type="submit"]`
	captchaSelector  = `iframe[src*="hcaptcha.com"]`

	redirectMarker = "appie://login-exit?code="
)

var codePattern = regexp.MustCompile(`code=([^'"\s&]+)`)

// CodeExchanger trades an authorization code for a token pair.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*core.TokenPair, error)
}

// Flow runs the browser login.
type Flow struct {
	exchanger CodeExchanger
	headless  bool

	// captchaWait bounds the race between captcha detection and navigation
	// after submit; codeWait bounds the whole human-interaction window.
	captchaWait time.Duration
	codeWait    time.Duration
}

// NewFlow creates a login flow with the standard timeouts: a short race to
// detect a captcha and a two-minute ceiling for the authorization code.
func NewFlow(exchanger CodeExchanger, headless bool) *Flow {
	return &Flow{
		exchanger:   exchanger,
		headless:    headless,
		captchaWait: 5 * time.Second,
		codeWait:    120 * time.Second,
	}
}

// Login submits the credentials and returns the initial token pair. A captcha
// pauses the flow until a human solves it in the (visible) browser window.
func (f *Flow) Login(ctx context.Context, username, password string) (*core.TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, core.ErrMissingCredentials
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.headless),
		chromedp.WindowSize(1280, 800),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	codeCh := make(chan string, 1)
	navigated := make(chan struct{}, 8)
	f.listen(browserCtx, codeCh, navigated)

	slog.InfoContext(ctx, "Starting browser login", "user", username, "headless", f.headless)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(authorizeURL),
		chromedp.WaitVisible(usernameSelector),
		chromedp.WaitVisible(passwordSelector),
		chromedp.SendKeys(usernameSelector, username),
		chromedp.SendKeys(passwordSelector, password),
		chromedp.Click(submitSelector),
	)
	if err != nil {
		return nil, fmt.Errorf("submit login form: %w", err)
	}

	// Race captcha detection against navigation. A timeout here is fine:
	// some accounts go straight through without either firing in time.
	captcha := f.watchCaptcha(browserCtx)
	winner, err := WaitFirst(browserCtx, f.captchaWait,
		Signal{Name: "captcha", C: captcha},
		Signal{Name: "navigation", C: navigated},
	)
	switch {
	case err == nil && winner == "captcha":
		slog.InfoContext(ctx, "Captcha detected, waiting for user to solve it", "ceiling", f.codeWait)
	case err != nil && err != ErrNoSignal:
		return nil, fmt.Errorf("wait after submit: %w", err)
	}

	select {
	case code := <-codeCh:
		slog.InfoContext(ctx, "Authorization code captured")
		return f.exchanger.ExchangeCode(ctx, code)
	case <-time.After(f.codeWait):
		return nil, core.ErrLoginTimeout
	case <-browserCtx.Done():
		return nil, fmt.Errorf("browser closed: %w", browserCtx.Err())
	}
}

// listen watches browser events for the redirect-carried code and for frame
// navigations. The login page logs the appie:// redirect to the console
// because the browser cannot follow the app scheme.
func (f *Flow) listen(ctx context.Context, codeCh chan<- string, navigated chan<- struct{}) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			for _, arg := range e.Args {
				text := consoleText(arg)
				if !strings.Contains(text, redirectMarker) {
					continue
				}
				if m := codePattern.FindStringSubmatch(text); m != nil {
					select {
					case codeCh <- m[1]:
					default:
					}
				}
			}
		case *page.EventFrameNavigated:
			select {
			case navigated <- struct{}{}:
			default:
			}
		}
	})
}

// watchCaptcha polls for the hcaptcha iframe and fires once when it appears.
func (f *Flow) watchCaptcha(ctx context.Context) <-chan struct{} {
	found := make(chan struct{})
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var present bool
				err := chromedp.Run(ctx, chromedp.EvaluateAsDevTools(
					fmt.Sprintf(`document.querySelector(%q) !== null`, captchaSelector), &present))
				if err == nil && present {
					close(found)
					return
				}
			}
		}
	}()
	return found
}

func consoleText(arg *runtime.RemoteObject) string {
	if arg == nil || len(arg.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(arg.Value, &s); err != nil {
		return string(arg.Value)
	}
	return s
}
