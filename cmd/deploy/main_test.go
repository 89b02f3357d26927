package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/ieltsgenaiprep/backend/internal/models"
)

type fakeLambda struct {
	inputs []*awslambda.UpdateFunctionCodeInput
	err    error
}

func (f *fakeLambda) UpdateFunctionCode(ctx context.Context, params *awslambda.UpdateFunctionCodeInput, optFns ...func(*awslambda.Options)) (*awslambda.UpdateFunctionCodeOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &awslambda.UpdateFunctionCodeOutput{
		Version:    aws.String("3"),
		CodeSha256: aws.String("abc123"),
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeBootstrap(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	fnDir := filepath.Join(dir, name)
	if err := os.MkdirAll(fnDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(fnDir, "bootstrap"), content, 0o755); err != nil {
		t.Fatalf("write bootstrap: %v", err)
	}
}

func TestZipBootstrap(t *testing.T) {
	dir := t.TempDir()
	content := []byte("#!/bin/sh\necho hi\n")
	writeBootstrap(t, dir, "webapi", content)

	archive, err := zipBootstrap(filepath.Join(dir, "webapi", "bootstrap"))
	if err != nil {
		t.Fatalf("zipBootstrap: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if len(reader.File) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(reader.File))
	}

	entry := reader.File[0]
	if entry.Name != "bootstrap" {
		t.Errorf("entry name = %q, want bootstrap", entry.Name)
	}
	if mode := entry.Mode().Perm(); mode != 0o755 {
		t.Errorf("entry mode = %o, want 755", mode)
	}

	rc, err := entry.Open()
	if err != nil {
		t.Fatalf("opening entry: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("entry content = %q, want %q", got, content)
	}
}

func TestZipBootstrapMissingBinary(t *testing.T) {
	_, err := zipBootstrap(filepath.Join(t.TempDir(), "nope", "bootstrap"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestDeployUpdatesFunctionCode(t *testing.T) {
	dir := t.TempDir()
	writeBootstrap(t, dir, "evaluator", []byte("binary"))

	client := &fakeLambda{}
	d := &Deployer{
		client:  client,
		distDir: dir,
		stage:   models.StageProd,
		logger:  testLogger(),
	}

	if err := d.Deploy(context.Background(), "evaluator"); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("expected 1 UpdateFunctionCode call, got %d", len(client.inputs))
	}
	input := client.inputs[0]
	if got := aws.ToString(input.FunctionName); got != "ielts-genai-prep-evaluator-prod" {
		t.Errorf("function name = %q", got)
	}
	if !input.Publish {
		t.Error("expected Publish to be set")
	}
	if len(input.ZipFile) == 0 {
		t.Error("expected non-empty zip payload")
	}
}

func TestDeployMissingBinary(t *testing.T) {
	d := &Deployer{
		client:  &fakeLambda{},
		distDir: t.TempDir(),
		stage:   models.StageDev,
		logger:  testLogger(),
	}

	if err := d.Deploy(context.Background(), "webapi"); err == nil {
		t.Fatal("expected error when bootstrap binary is missing")
	}
}

func TestDeployUpdateFailure(t *testing.T) {
	dir := t.TempDir()
	writeBootstrap(t, dir, "reminder", []byte("binary"))

	d := &Deployer{
		client:  &fakeLambda{err: errors.New("throttled")},
		distDir: dir,
		stage:   models.StageDev,
		logger:  testLogger(),
	}

	if err := d.Deploy(context.Background(), "reminder"); err == nil {
		t.Fatal("expected error when UpdateFunctionCode fails")
	}
}
