package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"

	"spotnet/src/serializer"
)

var ErrPayloadTooLarge = errors.New("dashboard payload exceeds size limit")

// Dashboard reads a raw dashboard payload, validates it and writes the normalized form.
type Dashboard struct {
	Log    *logger.Entry
	Config *Config
	Lookup serializer.DecimalsLookup
	In     io.Reader
	Out    io.Writer
}

func (d *Dashboard) Start(ctx context.Context) error {
	if d.Config == nil {
		d.Config = GetConfig()
	}
	if d.Log == nil {
		d.Log = logger.WithField("cmd", "dashboard")
	}

	data, err := io.ReadAll(io.LimitReader(d.In, d.Config.MaxPayloadBytes+1))
	if err != nil {
		return fmt.Errorf("read dashboard payload: %w", err)
	}
	if int64(len(data)) > d.Config.MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	resp, err := serializer.ValidateJSON(ctx, data, d.Lookup)
	if err != nil {
		fields := logger.Fields{}
		var verr *serializer.ValidationError
		if errors.As(err, &verr) {
			fields["path"] = verr.Path
			fields["kind"] = verr.Kind.Error()
		}
		d.Log.WithFields(fields).WithError(err).Error("Dashboard payload rejected")
		return err
	}

	d.Log.WithFields(logger.Fields{
		"balances": len(resp.Balances),
		"products": len(resp.ZkLendPosition.Products),
	}).Info("Dashboard payload validated")

	enc := json.NewEncoder(d.Out)
	if d.Config.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
