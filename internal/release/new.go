package release

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/drewdunne/releaser/internal/build"
	"github.com/drewdunne/releaser/internal/changelog"
	"github.com/drewdunne/releaser/internal/command"
	"github.com/drewdunne/releaser/internal/config"
	"github.com/drewdunne/releaser/internal/console"
	"github.com/drewdunne/releaser/internal/docker"
	"github.com/drewdunne/releaser/internal/plugin"
	"github.com/drewdunne/releaser/internal/provider"
	"github.com/drewdunne/releaser/internal/provider/ghcli"
	"github.com/drewdunne/releaser/internal/provider/github"
	"github.com/drewdunne/releaser/internal/provider/gitlab"
	"github.com/drewdunne/releaser/internal/vcs"
)

// Options carries the process-level dependencies of New.
type Options struct {
	// Dir is the plugin checkout; commands run and files resolve here.
	Dir    string
	Runner command.Runner
	Out    *console.Printer

	// BuildOutput receives containerized build output.
	BuildOutput io.Writer
}

// New assembles a Pipeline from configuration. Call Close when done.
func New(cfg *config.Config, env *config.Env, opts Options) (*Pipeline, error) {
	if opts.Runner == nil {
		opts.Runner = &command.Exec{}
	}
	// Commands run in Dir and also receive paths joined with it.
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving plugin directory: %w", err)
	}
	opts.Dir = dir

	p := &Pipeline{
		Dir:        opts.Dir,
		Resolver:   plugin.NewResolver(cfg.Plugins),
		OutputFile: env.GitHubOutput,
		Out:        opts.Out,
	}

	p.Changelog = changelog.NewUpdater(opts.Dir, cfg.ChangelogFile, cfg.ReadmeFile, cfg.ReadmeEntries)
	p.Changelog.Out = opts.Out

	prov, err := newProvider(cfg.Provider, env.Token(cfg.Provider.Name), opts)
	if err != nil {
		return nil, err
	}
	p.Provider = prov

	switch cfg.VCS.Backend {
	case config.BackendGoGit:
		repo, err := vcs.OpenGoGit(opts.Dir, cfg.Remote, vcs.TokenAuth(cfg.Provider.Name, env.Token(cfg.Provider.Name)))
		if err != nil {
			return nil, err
		}
		p.Repo = repo
	default:
		p.Repo = vcs.NewGit(opts.Runner, opts.Dir, cfg.Remote)
	}

	if cfg.Build.Image != "" {
		cli, err := docker.NewClient()
		if err != nil {
			return nil, fmt.Errorf("creating docker client: %w", err)
		}
		p.closers = append(p.closers, cli.Close)
		c := build.NewContainer(cli, opts.Dir, cfg.Build.Image, cfg.Build.Command)
		c.Output = opts.BuildOutput
		p.Builder = c
	} else {
		p.Builder = build.NewShell(opts.Runner, opts.Dir, cfg.Build.Command)
	}

	return p, nil
}

func newProvider(cfg config.ProviderConfig, token string, opts Options) (provider.Provider, error) {
	switch cfg.Name {
	case config.ProviderGH:
		return ghcli.New(opts.Runner, opts.Dir), nil
	case config.ProviderGitHub:
		var o []github.Option
		if cfg.BaseURL != "" {
			o = append(o, github.WithBaseURL(cfg.BaseURL))
		}
		return github.New(token, o...), nil
	case config.ProviderGitLab:
		var o []gitlab.Option
		if cfg.BaseURL != "" {
			o = append(o, gitlab.WithBaseURL(cfg.BaseURL))
		}
		return gitlab.New(token, o...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}
