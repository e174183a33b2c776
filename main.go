// Package main is the Local Loop client: a thin reflection of the
// marketplace API. All state lives server-side; the client renders
// records, gates actions on (viewer, role, status), and re-fetches
// after every write.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"localloop/app/cli"
	"localloop/config"
	"localloop/model"
	itemrepo "localloop/repository/item"
	paypalrepo "localloop/repository/paypal"
	reviewrepo "localloop/repository/review"
	transactionrepo "localloop/repository/transaction"
	userrepo "localloop/repository/user"
	"localloop/service/catalog"
	paymentsvc "localloop/service/payment"
	premiumsvc "localloop/service/premium"
	reviewsvc "localloop/service/review"
	txsvc "localloop/service/transaction"
	"localloop/session"
	"localloop/util/httpx"
)

func main() {
	cfg := config.Load()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// session: the only durable client-side state
	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0700); err != nil {
		log.Error("session dir", "err", err)
		os.Exit(1)
	}
	store, err := session.Open(cfg.SessionFile)
	if err != nil {
		log.Error("session open failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// transport: one authenticated client for the whole API surface
	api := httpx.New(cfg.APIBaseURL, store, time.Duration(cfg.HTTPTimeoutSec)*time.Second)

	// repos
	ir := itemrepo.New(api)
	tr := transactionrepo.New(api)
	ur := userrepo.New(api)
	rr := reviewrepo.New(api)

	// services
	ts := txsvc.New(tr, store)
	cs := catalog.New(ir)
	rs := reviewsvc.New(rr)
	ps := premiumsvc.New(ur, store)
	pay := paymentsvc.New(tr, ur, ps, func(pc model.PaymentConfig) paypalrepo.Repo {
		return paypalrepo.NewHTTP(cfg.PayPalBaseURL, pc.ClientID)
	})

	app := &cli.App{
		Log:      log,
		V:        validator.New(),
		Session:  store,
		Users:    ur,
		Tx:       ts,
		Catalog:  cs,
		Reviews:  rs,
		Premium:  ps,
		Payments: pay,
	}

	if err := cli.NewRoot(app).Execute(); err != nil {
		// Errors are already user-facing; print once and exit nonzero.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
