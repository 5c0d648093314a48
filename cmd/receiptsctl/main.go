package main

import (
	"log/slog"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/expensio/receipts-pipeline/internal/common"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		st := status.Convert(common.StatusFromError(err))
		logger.Error("command failed", "code", st.Code().String(), "error", err)
		os.Exit(exitCode(st.Code()))
	}
}

// exitCode maps the RPC status of a failure onto stable shell exit codes so
// scripts can branch on the failure class.
func exitCode(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return 2
	case codes.NotFound:
		return 3
	case codes.ResourceExhausted:
		return 4
	case codes.Unavailable:
		return 5
	default:
		return 1
	}
}
