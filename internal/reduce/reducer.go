// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"os"

	"github.com/charmbracelet/log"
)

type (
	// Reducer runs reduction passes over output trees. A Reducer holds no
	// per-pass state and may be reused; it must not run two passes over the
	// same tree at once.
	Reducer struct {
		logger   *log.Logger
		profiles *ProfileLoader
	}

	// Option configures a Reducer.
	Option func(*Reducer)

	// pass carries the options of a single run together with the logger.
	pass struct {
		log      *log.Logger
		opts     Options
		profiles *ProfileLoader
	}
)

// WithLogger sets the logger used for progress and warnings.
func WithLogger(logger *log.Logger) Option {
	return func(r *Reducer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProfileLoader replaces the loader used to resolve minimization profiles.
func WithProfileLoader(loader *ProfileLoader) Option {
	return func(r *Reducer) {
		if loader != nil {
			r.profiles = loader
		}
	}
}

// New creates a Reducer. Without options it logs to stderr and resolves
// profiles against the bundled set.
func New(opts ...Option) *Reducer {
	r := &Reducer{
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "reduce"}),
		profiles: NewProfileLoader(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Profiles returns the loader the Reducer resolves profiles with.
func (r *Reducer) Profiles() *ProfileLoader {
	return r.profiles
}

// Run performs the whole reduction of outputRoot: runtime minimization first,
// then platform library filtering over the classpath. The returned report is
// non-nil whenever the options were valid, and holds everything completed
// before a failure.
func (r *Reducer) Run(outputRoot string, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	report := NewReport(outputRoot, opts)

	minimized, err := r.Minimize(outputRoot, opts)
	report.addMinimize(minimized)
	if err != nil {
		return report, err
	}

	filtered, err := r.FilterPlatformLibraries(outputRoot, opts)
	report.addFiltered(filtered)
	if err != nil {
		return report, err
	}

	return report, nil
}

func (r *Reducer) newPass(opts Options) *pass {
	opts.Layout = opts.Layout.WithDefaults()
	return &pass{log: r.logger, opts: opts, profiles: r.profiles}
}

// step logs a progress detail: at info level in verbose runs, debug otherwise.
func (p *pass) step(msg string, keyvals ...any) {
	if p.opts.Verbose {
		p.log.Info(msg, keyvals...)
		return
	}
	p.log.Debug(msg, keyvals...)
}
