package server

import (
	"context"
	"io"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/internal/lolcode/source"
)

// runRequest validates req and runs it, streaming output to stdout
func runRequest(ctx context.Context, eng *engine.Engine, req RunRequest, maxProgramBytes int64, stdout io.Writer) (*engine.Report, error) {
	if err := validate(req, maxProgramBytes); err != nil {
		return nil, err
	}
	return eng.Run(ctx, engine.Request{
		Program:    source.FromString(programName(req), req.Source),
		InputWords: req.Input,
		Stdout:     stdout,
	})
}

// validate checks a run request against the program size limit
func validate(req RunRequest, maxProgramBytes int64) error {
	if req.Source == "" {
		return mdwerror.New("source is required").WithCode(mdwerror.CodeInvalidInput)
	}
	if maxProgramBytes > 0 && int64(len(req.Source)) > maxProgramBytes {
		return mdwerror.Newf("program exceeds %d bytes", maxProgramBytes).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("size", len(req.Source))
	}
	return nil
}

func programName(req RunRequest) string {
	if req.Name == "" {
		return "remote.lol"
	}
	return req.Name
}
