package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mandalnilabja/gemrelay/internal/app"
	"github.com/mandalnilabja/gemrelay/internal/config"
	relaylambda "github.com/mandalnilabja/gemrelay/internal/transport/lambda"
)

func main() {
	// No config file in the Lambda sandbox unless GEMRELAY_CONFIG points at one.
	cfg := config.LoadFrom(os.Getenv(config.ConfigEnv))
	// JSON lines are what CloudWatch Logs Insights parses.
	logger := app.NewLogger(os.Stdout, cfg.LogLevel, "json")

	rl, _ := app.NewRelay(cfg, logger)
	h := relaylambda.New(rl, cfg.AllowedOrigin)

	if os.Getenv("LAMBDA_PAYLOAD_VERSION") == relaylambda.PayloadV2 {
		lambda.Start(h.HandleHTTP)
		return
	}
	lambda.Start(h.HandleProxy)
}
