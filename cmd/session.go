package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/agent"
	"github.com/avianalytics/portfolio/date"
	"github.com/avianalytics/portfolio/intent"
	"github.com/avianalytics/portfolio/renderer"
)

// session wires a store, engine, resolver, and explainer together for the
// question-answering commands. The ticker registry is built from the
// committed snapshot at session start; ingestion happens in its own
// process invocation, so it cannot go stale within a session.
type session struct {
	store     *portfolio.Store
	engine    *portfolio.Engine
	resolver  *intent.Resolver
	explainer *portfolio.Explainer
	currency  string
	threshold float64
}

func newSession(ctx context.Context) (*session, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	tickers, err := store.Tickers()
	if err != nil {
		store.Close()
		return nil, err
	}
	currency, err := store.Currency()
	if err != nil {
		store.Close()
		return nil, err
	}

	var classifier intent.Classifier
	var narrator portfolio.Narrator
	if agent.Available() {
		client, err := agent.NewClient(ctx)
		if err != nil {
			store.Close()
			return nil, err
		}
		classifier = agent.NewClassifier(client)
		narrator = agent.NewNarrator(client)
	} else {
		log.Println("GEMINI_API_KEY not set: classification fallback and narration are disabled, deterministic answers only")
	}

	return &session{
		store:     store,
		engine:    portfolio.NewEngine(store),
		resolver:  intent.NewResolver(intent.NewRegistry(tickers), classifier),
		explainer: portfolio.NewExplainer(narrator),
		currency:  currency,
		threshold: config().BigMoveThreshold,
	}, nil
}

func (s *session) close() { s.store.Close() }

// answer resolves one free-text question and dispatches it to the engine.
func (s *session) answer(ctx context.Context, question string) (string, error) {
	it, err := s.resolver.Resolve(ctx, question)
	if err != nil {
		return "", err
	}

	switch it.Kind {
	case intent.NavQuery:
		if it.Date == nil {
			return "Please specify a date.", nil
		}
		nav, err := s.engine.NavOnDate(*it.Date)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NAV on %s was %s.", it.Date, portfolio.FormatMoney(nav, s.currency)), nil

	case intent.ExplainDay:
		if it.Date == nil {
			return "Please specify a date.", nil
		}
		exp, err := s.engine.ExplainDay(*it.Date)
		if err != nil {
			return "", err
		}
		return s.explainer.Explain(ctx, exp, s.currency), nil

	case intent.BigNavMoves:
		series, err := s.engine.NavSeries(date.Range{})
		if err != nil {
			return "", err
		}
		alerts := portfolio.DetectBigMoves(series, s.threshold)
		return renderer.AlertsMarkdown(alerts, s.currency), nil

	case intent.HoldingQuery:
		if it.Date == nil || it.Ticker == "" {
			return "Please specify both a valid ticker and date.", nil
		}
		holding, err := s.engine.HoldingOnDate(it.Ticker, *it.Date)
		if err != nil {
			return "", err
		}
		return renderer.HoldingMarkdown(holding, s.currency), nil

	case intent.CashQuery:
		if it.Date == nil {
			series, err := s.engine.CashSeries()
			if err != nil {
				return "", err
			}
			return renderer.CashSeriesMarkdown(series, s.currency), nil
		}
		cash, err := s.engine.CashOnDate(*it.Date)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Cash on %s was %s.", it.Date, portfolio.FormatMoney(cash.Amount, cash.Currency)), nil

	case intent.CashChangeExplain:
		if it.Date == nil {
			return "Please specify a date.", nil
		}
		change, err := s.engine.CashChange(*it.Date)
		if err != nil {
			return "", err
		}
		if change.Change == nil {
			return fmt.Sprintf("Cash on %s was %s. No prior day for comparison.",
				change.Date, portfolio.FormatMoney(change.Amount, s.currency)), nil
		}
		return fmt.Sprintf("Cash on %s was %s. The change from the previous day was %s.",
			change.Date,
			portfolio.FormatMoney(change.Amount, s.currency),
			portfolio.FormatMoney(*change.Change, s.currency)), nil
	}

	return "", &portfolio.UnsupportedIntentError{Question: question}
}

// diagnose renders any of the four error kinds as a single line, so an
// interactive session reports the failure and keeps going.
func diagnose(err error) string {
	var validation *portfolio.ValidationError
	var notFound *portfolio.NotFoundError
	var unsupported *portfolio.UnsupportedIntentError
	var external *portfolio.ExternalServiceError

	switch {
	case errors.As(err, &validation):
		return "validation failed on rule " + validation.Rule
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &unsupported):
		return "I did not understand. Try again."
	case errors.As(err, &external):
		return "the assistant backend is unavailable: " + strings.Split(external.Err.Error(), "\n")[0]
	default:
		return err.Error()
	}
}
