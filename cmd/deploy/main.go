package main

import (
	"archive/zip"
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/ieltsgenaiprep/backend/internal/logging"
	"github.com/ieltsgenaiprep/backend/internal/models"
)

// functions lists the Lambda binaries this project ships. The function name
// in AWS is ielts-genai-prep-<name>-<stage>.
var functions = []string{"webapi", "evaluator", "reminder"}

// LambdaAPI is the subset of the Lambda client the deployer uses
type LambdaAPI interface {
	UpdateFunctionCode(ctx context.Context, params *awslambda.UpdateFunctionCodeInput, optFns ...func(*awslambda.Options)) (*awslambda.UpdateFunctionCodeOutput, error)
}

// Deployer pushes built bootstrap binaries to their Lambda functions
type Deployer struct {
	client  LambdaAPI
	distDir string
	stage   models.Stage
	logger  *slog.Logger
}

// Deploy zips the bootstrap binary for one function and uploads it
func (d *Deployer) Deploy(ctx context.Context, name string) error {
	binaryPath := filepath.Join(d.distDir, name, "bootstrap")

	archive, err := zipBootstrap(binaryPath)
	if err != nil {
		return fmt.Errorf("failed to package %s: %w", name, err)
	}

	functionName := fmt.Sprintf("ielts-genai-prep-%s-%s", name, d.stage.String())

	d.logger.Info("updating function code",
		slog.String("function", functionName),
		slog.Int("zip_bytes", len(archive)),
	)

	out, err := d.client.UpdateFunctionCode(ctx, &awslambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(functionName),
		ZipFile:      archive,
		Publish:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", functionName, err)
	}

	d.logger.Info("function updated",
		slog.String("function", functionName),
		slog.String("version", aws.ToString(out.Version)),
		slog.String("code_sha256", aws.ToString(out.CodeSha256)),
	)

	return nil
}

// zipBootstrap packages a bootstrap binary the way the Lambda provided.al2
// runtime expects: a zip with a single executable entry named "bootstrap".
func zipBootstrap(binaryPath string) ([]byte, error) {
	data, err := os.ReadFile(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read binary: %w", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	header := &zip.FileHeader{
		Name:     "bootstrap",
		Method:   zip.Deflate,
		Modified: time.Now().UTC(),
	}
	header.SetMode(0o755)

	entry, err := w.CreateHeader(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := entry.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write zip entry: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}

	return buf.Bytes(), nil
}

func main() {
	var (
		stageFlag    = flag.String("stage", "dev", "deployment stage (dev, stage, prod)")
		functionFlag = flag.String("function", "all", "function to deploy (webapi, evaluator, reminder or all)")
		distFlag     = flag.String("dist", "dist", "directory holding built bootstrap binaries")
		regionFlag   = flag.String("region", "us-east-1", "AWS region")
	)
	flag.Parse()

	logger := logging.New("deploy")

	stage := models.Stage(*stageFlag)
	if !stage.IsValid() {
		logger.Error("invalid stage", slog.String("stage", *stageFlag))
		os.Exit(1)
	}

	targets := functions
	if *functionFlag != "all" {
		found := false
		for _, name := range functions {
			if name == *functionFlag {
				targets = []string{name}
				found = true
				break
			}
		}
		if !found {
			logger.Error("unknown function",
				slog.String("function", *functionFlag),
				slog.String("known", strings.Join(functions, ", ")),
			)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(*regionFlag))
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deployer := &Deployer{
		client:  awslambda.NewFromConfig(awsCfg),
		distDir: *distFlag,
		stage:   stage,
		logger:  logger,
	}

	failed := false
	for _, name := range targets {
		if err := deployer.Deploy(ctx, name); err != nil {
			logger.Error("deploy failed",
				slog.String("function", name),
				slog.String("error", err.Error()),
			)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}

	logger.Info("deploy complete",
		slog.String("stage", stage.String()),
		slog.Int("functions", len(targets)),
	)
}
