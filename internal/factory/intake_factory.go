package factory

import (
	"fmt"
	"os"

	"github.com/mikey/email-reconciler/internal/adapters/intake"
	"github.com/mikey/email-reconciler/internal/config"
	"github.com/mikey/email-reconciler/internal/ports"
	"go.uber.org/zap"
)

// IntakeFactory creates message intakes based on configuration
type IntakeFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder *intake.Recorder
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, recorder *intake.Recorder) *IntakeFactory {
	return &IntakeFactory{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
	}
}

// CreateEmailIntake creates the configured intake
func (f *IntakeFactory) CreateEmailIntake() (ports.EmailIntake, error) {
	intakeCfg, err := f.cfg.GetIntake()
	if err != nil {
		return nil, err
	}

	switch intakeCfg.Type {
	case "smtp":
		return intake.NewSMTPIntake(
			f.recorder,
			f.logger,
			intakeCfg.ListenAddress,
			intakeCfg.Domain,
			intakeCfg.MaxMessageSize,
			intakeCfg.MaxRecipients,
			intakeCfg.Timeout,
		), nil
	case "cli":
		return intake.NewCLIIntake(f.recorder, f.logger, os.Stdout, f.cfg.GetBool("cli.verbose")), nil
	default:
		return nil, fmt.Errorf("unsupported intake type: %s", intakeCfg.Type)
	}
}
