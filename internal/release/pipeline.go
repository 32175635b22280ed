// Package release runs the release steps in order. Each step depends on the
// previous one; the first failure stops the run and nothing is rolled back.
package release

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/chainguard-dev/clog"

	"github.com/drewdunne/releaser/internal/build"
	"github.com/drewdunne/releaser/internal/changelog"
	"github.com/drewdunne/releaser/internal/console"
	"github.com/drewdunne/releaser/internal/metadata"
	"github.com/drewdunne/releaser/internal/metrics"
	"github.com/drewdunne/releaser/internal/notes"
	"github.com/drewdunne/releaser/internal/notify"
	"github.com/drewdunne/releaser/internal/plugin"
	"github.com/drewdunne/releaser/internal/provider"
	"github.com/drewdunne/releaser/internal/vcs"
)

// Step names, in execution order.
const (
	StepResolve   = "resolve plugin"
	StepMetadata  = "read plugin metadata"
	StepNotes     = "fetch release notes"
	StepChangelog = "update changelog"
	StepCommit    = "commit changelog"
	StepTag       = "tag release"
	StepBuild     = "build archive"
	StepPublish   = "publish release"
	StepOutput    = "write workflow output"
	StepComment   = "comment on pull request"
)

// Pipeline holds the collaborators of a release run.
type Pipeline struct {
	Dir        string
	Resolver   *plugin.Resolver
	Changelog  *changelog.Updater
	Repo       vcs.Repository
	Builder    build.Builder
	Provider   provider.Provider
	OutputFile string
	Out        *console.Printer

	closers []func() error
}

// Result is what a run produced, filled in step by step.
type Result struct {
	Plugin     plugin.Descriptor
	Info       metadata.Info
	Notes      string
	Entry      changelog.Entry
	ReleaseURL string
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Run releases plugin slug using the notes of pull request prNumber. On
// failure the partial Result is returned with the error.
func (p *Pipeline) Run(ctx context.Context, slug string, prNumber int) (*Result, error) {
	res := &Result{}
	for _, s := range p.steps(slug, prNumber, res) {
		log := clog.FromContext(ctx).With("step", s.name)
		log.Debug("Starting step")
		metrics.StepStarted()
		if err := s.run(clog.WithLogger(ctx, log)); err != nil {
			metrics.StepFailed()
			return res, fmt.Errorf("%s: %w", s.name, err)
		}
		metrics.StepCompleted()
	}
	return res, nil
}

// Close releases resources held by the collaborators.
func (p *Pipeline) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (p *Pipeline) steps(slug string, prNumber int, res *Result) []step {
	return []step{
		{StepResolve, func(ctx context.Context) error {
			d, err := p.Resolver.Resolve(slug)
			res.Plugin = d
			return err
		}},
		{StepMetadata, func(ctx context.Context) error {
			info, err := metadata.Read(filepath.Join(p.Dir, res.Plugin.MainFile))
			if err != nil {
				return err
			}
			if err := metadata.CheckVersion(info.Version); err != nil {
				clog.FromContext(ctx).Warnf("%v", err)
			}
			res.Info = info
			clog.FromContext(ctx).With("plugin", info.DisplayName, "version", info.Version).Info("Releasing plugin")
			return nil
		}},
		{StepNotes, func(ctx context.Context) error {
			text, err := notes.NewFetcher(p.Provider).Fetch(ctx, res.Plugin.Repo, prNumber)
			res.Notes = text
			return err
		}},
		{StepChangelog, func(ctx context.Context) error {
			entry, err := p.Changelog.Update(ctx, res.Info.Version, res.Notes)
			res.Entry = entry
			return err
		}},
		{StepCommit, func(ctx context.Context) error {
			if err := p.Repo.Commit(ctx, vcs.CommitMessage(res.Info.Version), p.Changelog.Files()...); err != nil {
				return err
			}
			return p.Repo.Push(ctx)
		}},
		{StepTag, func(ctx context.Context) error {
			if err := p.Repo.Tag(ctx, res.Info.Version, vcs.TagMessage(res.Info.Version)); err != nil {
				return err
			}
			return p.Repo.PushTag(ctx, res.Info.Version)
		}},
		{StepBuild, func(ctx context.Context) error {
			return p.Builder.Build(ctx)
		}},
		{StepPublish, func(ctx context.Context) error {
			clog.FromContext(ctx).With("provider", p.Provider.Name(), "repo", res.Plugin.Repo).Infof("Publishing release %s", res.Info.Version)
			url, err := p.Provider.CreateRelease(ctx, res.Plugin.Repo, provider.Release{
				Tag:       res.Info.Version,
				Title:     provider.ReleaseTitle(res.Info.Version),
				Notes:     res.Notes,
				AssetPath: build.ArchivePath(p.Dir, res.Plugin.Slug),
			})
			res.ReleaseURL = url
			return err
		}},
		{StepOutput, func(ctx context.Context) error {
			return notify.WriteOutput(p.OutputFile, "version", res.Info.Version)
		}},
		{StepComment, func(ctx context.Context) error {
			p.Out.Success(notify.Summary(res.Info.DisplayName, res.Info.Version))
			body := notify.Comment(res.Info.DisplayName, res.Info.Version, res.ReleaseURL)
			return p.Provider.EditLastComment(ctx, res.Plugin.Repo, prNumber, body)
		}},
	}
}
