// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patcher

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/cfgpatch/pkg/document"
	"github.com/walteh/cfgpatch/pkg/log"
	"github.com/walteh/cfgpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Job is one rule set applied to one file
type Job struct {
	Path    string
	RuleSet text.RuleSet
	Expect  document.Expectation
}

// 📋 Report describes what a Run did
type Report struct {
	Path       string
	RuleSet    string
	Result     *text.ApplyResult
	Written    bool   // Whether the file was rewritten
	Verified   bool   // Whether the expectation held after the write
	VerifyErr  error  // Set when verification ran and failed
	BackupPath string // Set when a backup was taken
	Diff       string // Line diff of the pending change, set in dry-run mode
}

// Changed reports whether the rule set changed the document
func (r *Report) Changed() bool {
	return r.Result != nil && r.Result.WasModified()
}

// 🔧 Options contains configuration for the patcher
type Options struct {
	// Store loads and saves the target file
	Store *document.Store
	// Logger prints status lines
	Logger *log.Logger
	// Engine applies rule sets, defaults to text.NewEngine()
	Engine *text.Engine
	// DryRun computes the diff without writing
	DryRun bool
	// Backup copies the original before the first write
	Backup bool
	// NoVerify skips the post-write expectation check
	NoVerify bool
}

// 🩹 Patcher runs jobs
type Patcher struct {
	store    *document.Store
	logger   *log.Logger
	engine   *text.Engine
	dryRun   bool
	backup   bool
	noVerify bool
}

// 🏭 New creates a new patcher with the given options
func New(opts Options) (*Patcher, error) {
	if opts.Store == nil {
		return nil, errors.Errorf("store is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	engine := opts.Engine
	if engine == nil {
		engine = text.NewEngine()
	}
	return &Patcher{
		store:    opts.Store,
		logger:   opts.Logger,
		engine:   engine,
		dryRun:   opts.DryRun,
		backup:   opts.Backup,
		noVerify: opts.NoVerify,
	}, nil
}

// 🏃 Run loads the file, applies the rule set and writes the result back
// when something changed.
//
// Missing or unreadable files and invalid rule sets are returned as
// errors. Unmatched rules are reported and skipped. A failed verification
// is recorded on the report and the written file is kept.
func (p *Patcher) Run(ctx context.Context, job Job) (*Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", job.Path).Str("rule_set", job.RuleSet.Name).Logger()
	ctx = logger.WithContext(ctx)

	report := &Report{Path: job.Path, RuleSet: job.RuleSet.Name}

	doc, err := p.store.Load(ctx, job.Path)
	if err != nil {
		p.summarize(ctx, report, "failed")
		return report, errors.Errorf("loading target: %w", err)
	}

	result, err := p.engine.Apply(ctx, job.Path, doc.Content, job.RuleSet)
	report.Result = result
	if err != nil {
		p.summarize(ctx, report, "failed")
		return report, errors.Errorf("applying rules: %w", err)
	}

	p.echo(result)

	if !result.WasModified() {
		logger.Debug().Msg("nothing to change")
		p.summarize(ctx, report, "unchanged")
		return report, nil
	}

	if p.dryRun {
		report.Diff = Diff(job.Path, string(result.OriginalContent), string(result.ModifiedContent))
		p.logger.Diff(report.Diff)
		p.summarize(ctx, report, "would change")
		return report, nil
	}

	if p.backup {
		backup, err := p.store.Backup(ctx, job.Path)
		if err != nil {
			p.summarize(ctx, report, "failed")
			return report, errors.Errorf("backing up target: %w", err)
		}
		report.BackupPath = backup
	}

	if err := p.store.Save(ctx, job.Path, result.ModifiedContent); err != nil {
		p.summarize(ctx, report, "failed")
		return report, errors.Errorf("saving target: %w", err)
	}
	report.Written = true

	if !p.noVerify && !job.Expect.IsZero() {
		ok, err := p.store.Verify(ctx, job.Path, job.Expect)
		report.Verified = ok
		if err != nil {
			if !errors.Is(err, document.ErrVerificationMismatch) {
				p.summarize(ctx, report, "failed")
				return report, errors.Errorf("verifying target: %w", err)
			}
			report.VerifyErr = err
			p.logger.Warningf("verification failed for %s: %v", job.Path, err)
		}
	}

	p.summarize(ctx, report, "modified")
	return report, nil
}

// echo prints the per-rule status lines
func (p *Patcher) echo(result *text.ApplyResult) {
	for _, edit := range result.Edits {
		p.logger.Old(edit.RuleID, edit.Old)
		p.logger.Fixed(edit.RuleID)
	}
	for _, skip := range result.Skipped {
		if skip.Reason == text.SkipNoMatch {
			p.logger.CouldNotFind(skip.RuleID, skip.Match)
		}
	}
}

func (p *Patcher) summarize(ctx context.Context, report *Report, status string) {
	op := log.FileOperation{
		Path:       report.Path,
		RuleSet:    report.RuleSet,
		Status:     status,
		IsModified: report.Changed(),
		IsDryRun:   p.dryRun,
		IsFailed:   status == "failed",
	}
	if report.Result != nil {
		op.Applied = len(report.Result.Applied)
		op.Skipped = len(report.Result.Skipped)
	}
	p.logger.LogFileOperation(ctx, op)
}
