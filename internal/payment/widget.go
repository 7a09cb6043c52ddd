package payment

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rsharma-dev/zaika/config"
	"github.com/rsharma-dev/zaika/pkg/logger"
)

// CallbackWidget is the headless rendition of the gateway's checkout widget:
// it listens on a loopback address for the gateway's redirect and resolves
// with whatever result the redirect carries. Dismissal is modelled as context
// cancellation and is always safe: no partial state, no cart mutation.
type CallbackWidget struct {
	addr string
}

// NewCallbackWidget listens on the configured loopback callback address.
func NewCallbackWidget() *CallbackWidget {
	return &CallbackWidget{addr: config.PaymentCallbackAddr()}
}

// Open starts the callback listener, points the user at the gateway page and
// blocks until the gateway redirects back or ctx is cancelled.
func (w *CallbackWidget) Open(ctx context.Context, intent Intent) (Result, error) {
	ln, err := net.Listen("tcp", w.addr)
	if err != nil {
		return Result{}, fmt.Errorf("payment: callback listener: %w", err)
	}

	results := make(chan Result, 1)

	r := chi.NewRouter()
	r.Get("/callback", func(rw http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		res := Result{
			Status:    q.Get("status"),
			PaymentID: q.Get("paymentId"),
			OrderRef:  q.Get("orderRef"),
			Signature: q.Get("signature"),
		}
		if res.Status == "" {
			res.Status = "failed"
		}
		if res.OrderRef == "" {
			res.OrderRef = intent.GatewayOrderID
		}

		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(rw, "<html><body><p>Payment response received. You can return to the terminal.</p></body></html>")

		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Handler: r}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Warn("payment: callback server", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("payment: waiting for gateway result",
		"gateway_order_id", intent.GatewayOrderID,
		"amount_minor_units", intent.Amount,
		"callback", "http://"+w.addr+"/callback")

	select {
	case res := <-results:
		return res, nil
	case <-ctx.Done():
		// Dismissal: return to idle with no side effects.
		return Result{Status: "cancelled"}, nil
	}
}
