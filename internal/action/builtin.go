package action

import (
	"fmt"
	"log"

	"github.com/ivlev/parallaxus/internal/element"
)

func registerBuiltins(r *Registry) {
	r.Register("addClass", classAction(func(t Target, class string) { t.AddClass(class) }))
	r.Register("removeClass", classAction(func(t Target, class string) { t.RemoveClass(class) }))
	r.Register("toggleClass", classAction(func(t Target, class string) {
		if t.HasClass(class) {
			t.RemoveClass(class)
		} else {
			t.AddClass(class)
		}
	}))
	r.Register("setStyle", setStyle)
	r.Register("log", logAction)
}

func classAction(apply func(t Target, class string)) Factory {
	return func(target Target, args map[string]string, _ *log.Logger) (element.Callback, error) {
		class, err := required(args, "class")
		if err != nil {
			return nil, err
		}
		filter, err := directionFilter(args)
		if err != nil {
			return nil, err
		}
		return func(direction int) {
			if filter(direction) {
				apply(target, class)
			}
		}, nil
	}
}

func setStyle(target Target, args map[string]string, _ *log.Logger) (element.Callback, error) {
	property, err := required(args, "property")
	if err != nil {
		return nil, err
	}
	value := args["value"]
	filter, err := directionFilter(args)
	if err != nil {
		return nil, err
	}
	return func(direction int) {
		if filter(direction) {
			target.SetProperty(property, value)
		}
	}, nil
}

func logAction(target Target, args map[string]string, logger *log.Logger) (element.Callback, error) {
	message := args["message"]
	return func(direction int) {
		logger.Printf("[*] %v: %s (direction %+d)", target, message, direction)
	}, nil
}

func required(args map[string]string, key string) (string, error) {
	v := args[key]
	if v == "" {
		return "", fmt.Errorf("missing %q argument", key)
	}
	return v, nil
}

// directionFilter reads the optional "direction" argument: down, up or any
func directionFilter(args map[string]string) (func(int) bool, error) {
	switch args["direction"] {
	case "", "any":
		return func(int) bool { return true }, nil
	case "down":
		return func(d int) bool { return d == element.Down }, nil
	case "up":
		return func(d int) bool { return d == element.Up }, nil
	}
	return nil, fmt.Errorf("direction %q is not down, up or any", args["direction"])
}
