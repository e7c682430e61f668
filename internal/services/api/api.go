// Package api provides the HTTP API for the translation pipeline
package api

import (
	"context"

	"dragoman/internal/adapters/llm"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	"dragoman/internal/platform/config"
	"dragoman/internal/platform/logger"
	phttp "dragoman/internal/platform/net/http"
	"dragoman/internal/platform/store"

	"dragoman/internal/modkit"
	"dragoman/internal/modkit/httpkit"
	"dragoman/internal/modkit/module"
	"dragoman/internal/modkit/swaggerkit"

	apifeedback "dragoman/internal/services/api/feedback/module"
	metamod "dragoman/internal/services/api/meta/module"
	apimonitor "dragoman/internal/services/api/monitor/module"
	apirules "dragoman/internal/services/api/rules/module"
	apitranslate "dragoman/internal/services/api/translate/module"

	feedbackmod "dragoman/internal/services/feedback/module"
	feedbacksvc "dragoman/internal/services/feedback/service"
	gatewaymod "dragoman/internal/services/gateway/module"
	monitormod "dragoman/internal/services/monitor/module"
	recoverymod "dragoman/internal/services/recovery/module"
	regressionmod "dragoman/internal/services/regression/module"
	regressionsvc "dragoman/internal/services/regression/service"

	fdom "dragoman/internal/services/feedback/domain"
	gwdom "dragoman/internal/services/gateway/domain"
	rulesrepo "dragoman/internal/services/rules/repo"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Provider       llm.Provider // nil builds the default HTTP client from LLM_* config
	EnableSwagger  bool
	EnableProfiler bool
}

// System bundles the long-lived singletons main needs after mounting:
// the worker to start and the ports batch tools drive directly
type System struct {
	Rules      *rulelib.Store
	Translator gwdom.TranslatorPort
	Regression *regressionsvc.Service
	Feedback   *feedbacksvc.Service
}

// PolicyFromConfig reads the PURITY_* thresholds with the 95/2/80 defaults
func PolicyFromConfig(cfg config.Conf) purity.Policy {
	p := cfg.Prefix("PURITY_")
	def := purity.DefaultPolicy()
	return purity.Policy{
		PassTargetMin:     p.MayFloat64("PASS_TARGET_MIN", def.PassTargetMin),
		PassForeignMax:    p.MayFloat64("PASS_FOREIGN_MAX", def.PassForeignMax),
		DegradedTargetMin: p.MayFloat64("DEGRADED_TARGET_MIN", def.DegradedTargetMin),
	}
}

// Mount wires the whole pipeline onto the given router and returns the
// live system handles
func Mount(r phttp.Router, opt Options) *System {
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}
	deps := modkit.Deps{
		Log: *log,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// core singletons shared by every module
	builtin, err := rulelib.LoadBuiltin()
	if err != nil {
		panic(err)
	}
	if deps.PG != nil {
		// feedback-deployed rules persist as an overlay on the builtin pack
		overlay, err := rulesrepo.NewPG().Bind(deps.PG).List(context.Background())
		if err != nil {
			panic(err)
		}
		builtin = append(builtin, overlay...)
	}
	rules, err := rulelib.NewStore(builtin)
	if err != nil {
		panic(err)
	}
	validator, err := purity.New(PolicyFromConfig(opt.Config))
	if err != nil {
		panic(err)
	}
	provider := opt.Provider
	if provider == nil {
		provider = llm.NewClient(llm.ConfigFromEnv(opt.Config))
	}

	// worker-side modules first so their ports can be injected
	monitor := monitormod.New(deps)
	monPorts := module.MustPortsOf[monitormod.Ports](monitor)

	recovery := recoverymod.New(deps, recoverymod.Deps{
		Provider:  provider,
		Rules:     rules,
		Validator: validator,
	})
	recPorts := module.MustPortsOf[recoverymod.Ports](recovery)

	gateway := gatewaymod.New(deps, gatewaymod.Deps{
		Provider:  provider,
		Rules:     rules,
		Validator: validator,
		Recoverer: recPorts.Coordinator,
		Recorder:  monPorts.Recorder,
	})
	gwPorts := module.MustPortsOf[gatewaymod.Ports](gateway)

	regression := regressionmod.New(deps, regressionmod.Deps{
		Rules:     rules,
		Validator: validator,
	})
	regPorts := module.MustPortsOf[regressionmod.Ports](regression)

	sys := &System{
		Rules:      rules,
		Translator: gwPorts.Translator,
		Regression: regression.Service(),
	}

	// feedback needs Postgres; everything else degrades gracefully without it
	var reporter fdom.ReporterPort
	if deps.PG != nil {
		feedback := feedbackmod.New(deps, feedbackmod.Deps{
			Rules:      rules,
			Validator:  validator,
			Regression: regPorts.Runner,
		})
		reporter = module.MustPortsOf[feedbackmod.Ports](feedback).Reporter
		sys.Feedback = feedback.Service()
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Rules: rules, CH: deps.CH})),
		apitranslate.New(deps, modkit.WithPorts(apitranslate.Ports{Translator: gwPorts.Translator})),
		apimonitor.New(deps, modkit.WithPorts(apimonitor.Ports{Reader: monPorts.Reader})),
		apirules.New(deps, modkit.WithPorts(apirules.Ports{Rules: rules, Runner: regPorts.Runner})),
	}
	if reporter != nil {
		mods = append(mods, apifeedback.New(deps, modkit.WithPorts(apifeedback.Ports{Reporter: reporter})))
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return sys
}
