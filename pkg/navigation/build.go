package navigation

import (
	"fmt"
	"strings"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/config"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/screen"
)

// ConfigOptions returns the registry options cfg sets. Pass them to
// NewRegistry before calling Build.
func ConfigOptions(cfg *config.Config) ([]RegistryOption, error) {
	policy, err := ParseInteractionPolicy(cfg.Interaction)
	if err != nil {
		return nil, errors.New("navigation.ConfigOptions", errors.KindConfig, err)
	}
	return []RegistryOption{WithInteractionPolicy(policy)}, nil
}

// Build creates every container cfg describes, in order, and a link router
// for its links. When any container fails, the ones created so far are
// removed again.
func (r *Registry) Build(cfg *config.Config) (*LinkRouter, error) {
	const op = "navigation.Registry.Build"
	var created []string
	undo := func() {
		for _, name := range created {
			_ = r.Remove(name)
		}
	}

	for _, cc := range cfg.Containers {
		opts, err := containerOptionsFrom(cc)
		if err != nil {
			undo()
			return nil, errors.New(op, errors.KindConfig, fmt.Errorf("container %q: %w", cc.Name, err))
		}
		switch strings.ToLower(cc.Kind) {
		case "page":
			_, err = r.NewPageContainer(cc.Name, opts...)
		case "modal":
			_, err = r.NewModalContainer(cc.Name, opts...)
		case "sheet":
			_, err = r.NewSheetContainer(cc.Name, opts...)
		}
		if err != nil {
			undo()
			return nil, err
		}
		created = append(created, cc.Name)
	}

	routes := make([]LinkRoute, len(cfg.Links))
	for i, l := range cfg.Links {
		routes[i] = LinkRoute{Path: l.Path, Container: l.Container, Key: l.Key, Animate: l.Animate}
	}
	lr, err := r.NewLinkRouter(routes...)
	if err != nil {
		undo()
		return nil, err
	}
	r.logger.Debug("navigation built from config",
		"version", cfg.Version,
		"containers", len(created),
		"links", len(routes))
	return lr, nil
}

func containerOptionsFrom(cc config.ContainerConfig) ([]ContainerOption, error) {
	var kind screen.Kind
	switch strings.ToLower(cc.Kind) {
	case "page":
		kind = screen.Page
	case "modal":
		kind = screen.Modal
	case "sheet":
		kind = screen.Sheet
	default:
		return nil, fmt.Errorf("unknown kind %q", cc.Kind)
	}
	var opts []ContainerOption

	if !cc.Animation.IsZero() {
		anim, err := mergeAnimation(defaultContainerOptions(kind).anim, cc.Animation)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAnimation(anim))
	}
	if cc.Stacking != nil {
		opts = append(opts, WithStacking(*cc.Stacking))
	}

	if bd := cc.Backdrop; bd != nil {
		timing, err := ParseReorderTiming(bd.Timing)
		if err != nil {
			return nil, err
		}
		handler, err := NewBackdropHandler(bd.Strategy, timing)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBackdrop(handler))

		fade, err := mergeAnimation(defaultBackdropFade, config.AnimationConfig{Duration: bd.Duration, Curve: bd.Curve})
		if err != nil {
			return nil, err
		}
		alpha := defaultContainerOptions(kind).alpha
		if bd.Alpha != nil {
			alpha = *bd.Alpha
		}
		opts = append(opts, WithBackdropFade(fade, alpha))
		if bd.Dismissible {
			opts = append(opts, WithDismissibleBackdrop())
		}
	}
	return opts, nil
}

// mergeAnimation overrides the fields of base that ac sets.
func mergeAnimation(base animation.Default, ac config.AnimationConfig) (animation.Default, error) {
	if ac.Type != "" {
		k, err := animation.ParseKind(ac.Type)
		if err != nil {
			return base, err
		}
		base.Kind = k
	}
	if ac.Duration > 0 {
		base.Length = ac.Duration.Std()
	}
	if ac.Curve != "" {
		c, ok := animation.CurveByName(ac.Curve)
		if !ok {
			return base, fmt.Errorf("unknown curve %q", ac.Curve)
		}
		base.Curve = c
	}
	if ac.Direction != "" {
		d, err := animation.ParseSlideDirection(ac.Direction)
		if err != nil {
			return base, err
		}
		base.Direction = d
	}
	if ac.Parallax > 0 {
		base.Parallax = ac.Parallax
	}
	return base, nil
}
