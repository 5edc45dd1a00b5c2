// cmd/tools/payload-evaluator/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"devicelife-worker/internal/common/backend"
	"devicelife-worker/internal/common/config"
	"devicelife-worker/internal/common/database"
	"devicelife-worker/internal/common/logger"
	"devicelife-worker/internal/common/validation"
	"devicelife-worker/internal/engine"
	"devicelife-worker/internal/models"
)

func main() {
	evaluateCmd := flag.NewFlagSet("evaluate", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	fetchCmd := flag.NewFlagSet("fetch", flag.ExitOnError)
	forgetCmd := flag.NewFlagSet("forget", flag.ExitOnError)

	evalFile := evaluateCmd.String("file", "-", "Payload JSON file, - for stdin")
	evalBreakdown := evaluateCmd.Bool("breakdown", false, "Include per-metric convenience and per-tag lifestyle detail")

	validateFile := validateCmd.String("file", "-", "Payload JSON file, - for stdin")

	fetchID := fetchCmd.Int64("id", 0, "Combination ID to fetch and evaluate (nothing is submitted)")
	fetchConfig := fetchCmd.String("config", "", "Config file (defaults to configs/config.yaml)")

	forgetID := forgetCmd.Int64("id", 0, "Combination ID whose submission record is removed")
	forgetVersion := forgetCmd.Int64("version", 0, "Evaluation version of the record")
	forgetConfig := forgetCmd.String("config", "", "Config file (defaults to configs/config.yaml)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "evaluate":
		evaluateCmd.Parse(os.Args[2:])
		payload, err := readPayload(*evalFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(report(payload, *evalBreakdown))

	case "validate":
		validateCmd.Parse(os.Args[2:])
		raw, err := readInput(*validateFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		result, err := validation.ValidatePayload(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)
		if !result.Valid {
			os.Exit(2)
		}

	case "fetch":
		fetchCmd.Parse(os.Args[2:])
		if *fetchID <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -id is required for fetch.")
			fetchCmd.Usage()
			os.Exit(1)
		}
		payload, err := fetch(*fetchConfig, *fetchID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printJSON(report(payload, true))

	case "forget":
		forgetCmd.Parse(os.Args[2:])
		if *forgetID <= 0 || *forgetVersion <= 0 {
			fmt.Fprintln(os.Stderr, "Error: -id and -version are required for forget.")
			forgetCmd.Usage()
			os.Exit(1)
		}
		if err := forget(*forgetConfig, *forgetID, *forgetVersion); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Submission record removed for combination %d version %d\n", *forgetID, *forgetVersion)

	default:
		help()
		os.Exit(1)
	}
}

type evaluationReport struct {
	Result      models.EvaluationResult    `json:"result"`
	Convenience *engine.ConvenienceMetrics `json:"convenience,omitempty"`
	Lifestyles  map[string]int             `json:"lifestyleDeltas,omitempty"`
}

func report(payload *models.DevicePayload, breakdown bool) evaluationReport {
	r := evaluationReport{Result: engine.NewEvaluator().Evaluate(payload)}
	if !breakdown {
		return r
	}

	metrics := engine.ConvenienceBreakdown(payload)
	r.Convenience = &metrics
	r.Lifestyles = make(map[string]int)
	for _, tag := range engine.NormalizeLifestyleTags(payload.Lifestyles) {
		r.Lifestyles[tag] = engine.LifestyleDelta(payload, tag)
	}
	return r
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func fetch(path string, combinationID int64) (*models.DevicePayload, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := backend.NewClient(cfg.Backend, logger.NewStructured("payload-evaluator", "warn", "console"))
	return client.GetPayload(ctx, combinationID)
}

// forget drops the submission record of a combination version so the worker
// submits it again on the next job.
func forget(path string, combinationID, evaluationVersion int64) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if !cfg.Redis.Enabled {
		return fmt.Errorf("redis is disabled in config, there is no submission ledger")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redis := database.NewRedis(cfg.Redis)
	defer redis.Close()
	if err := redis.Ping(ctx); err != nil {
		return err
	}

	ledger := database.NewSubmissionLedger(redis, cfg.Redis.KeyPrefix, cfg.Redis.TTL())
	return ledger.Forget(ctx, combinationID, evaluationVersion)
}

func readPayload(path string) (*models.DevicePayload, error) {
	raw, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return backend.DecodePayload(raw, 0)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: payload-evaluator <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  evaluate   Score a payload file offline")
	fmt.Println("  validate   Check a payload file against the payload schema")
	fmt.Println("  fetch      Fetch a combination from the backend and score it without submitting")
	fmt.Println("  forget     Remove a submission record so the combination version is submitted again")
}
