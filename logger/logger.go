package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "launcher.log"

var (
	// Log stays a no-op logger until InitLogger runs, so library packages
	// and tests can log without any setup.
	Log       = zap.NewNop().Sugar()
	ZapLogger = zap.NewNop() // Raw zap logger behind Log
)

// InitLogger points Log at launcher.log and stderr.
func InitLogger() {
	// Configure the encoder
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:          "T", // Keep time key brief
		LevelKey:         "L",
		NameKey:          "N",
		CallerKey:        "",              // Disable caller key
		FunctionKey:      zapcore.OmitKey, // Disable function key
		MessageKey:       "M",
		StacktraceKey:    "S",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,                        // INFO, WARN, etc.
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"), // Simpler time format
		EncodeDuration:   zapcore.SecondsDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder, // Unused while CallerKey is empty
		ConsoleSeparator: "  ",                       // Separator between elements in console output
	}

	// Open the log file next to the binary
	logFile, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("can't open log file: %v", err)
	}

	// File gets INFO and above, stderr only WARN and above.
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(logFile), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), zap.WarnLevel),
	)

	// Build the logger
	ZapLogger = zap.New(core) // No AddCaller, keeps lines short

	Log = ZapLogger.Sugar()
	Log.Info("Logger initialized, logging to " + logFileName) // Log initialization message
}

// Sync should be deferred from main.
func Sync() {
	if ZapLogger != nil {
		_ = ZapLogger.Sync() // flushes buffer, if any
	}
}
