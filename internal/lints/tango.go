package lints

import (
	"fmt"
	"strings"

	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

// The T-codes cover PyTango device-server conventions: class and
// property naming, attribute and command declarations, lifecycle
// hooks, and calls that block the Tango event loop.
func init() {
	Register(&treeRule{
		code: "T001", severity: tt.SeverityWarning,
		doc:     "Device class name should start with an uppercase letter.",
		handles: []pyast.Kind{pyast.KindClassDef},
		check:   checkDeviceClassNaming,
	})
	Register(&treeRule{
		code: "T010", severity: tt.SeverityError,
		doc:     "device_property must have a type annotation.",
		handles: []pyast.Kind{pyast.KindAnnAssign},
		check:   checkPropertyAnnotation,
	})
	Register(&treeRule{
		code: "T011", severity: tt.SeverityWarning,
		doc:     "device_property name should use PascalCase.",
		handles: []pyast.Kind{pyast.KindAnnAssign},
		check:   checkPropertyNaming,
	})
	Register(&treeRule{
		code: "T020", severity: tt.SeverityWarning,
		doc:     "Tango @attribute method should have a docstring.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeDocstring,
	})
	Register(&treeRule{
		code: "T021", severity: tt.SeverityError,
		doc:     "Tango @attribute method must have a return-type annotation.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeReturnType,
	})
	Register(&treeRule{
		code: "T022", severity: tt.SeverityInfo,
		doc:     "Attribute 'name' config key differs from the method name.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeNameMatch,
	})
	Register(&treeRule{
		code: "T023", severity: tt.SeverityWarning,
		doc:     "Tango @attribute should include a 'description' parameter.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeDescription,
	})
	Register(&treeRule{
		code: "T024", severity: tt.SeverityInfo,
		doc:     "Tango @attribute may need a 'unit' parameter.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeUnit,
	})
	Register(&treeRule{
		code: "T025", severity: tt.SeverityInfo,
		doc:     "Tango @attribute body may need quality validation via set_validity.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeQuality,
	})
	Register(&treeRule{
		code: "T030", severity: tt.SeverityWarning,
		doc:     "Tango @command method should have a docstring.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkCommandDocstring,
	})
	Register(&treeRule{
		code: "T031", severity: tt.SeverityInfo,
		doc:     "Tango @command name should use PascalCase.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkCommandNaming,
	})
	Register(&treeRule{
		code: "T032", severity: tt.SeverityError,
		doc:     "Tango device classes must not override __init__; use init_device() instead.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkInitOverride,
	})
	Register(&treeRule{
		code: "T033", severity: tt.SeverityWarning,
		doc:     "init_device() should call super().init_device() to ensure proper initialisation.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   lifecycleSuperCheck("init_device"),
	})
	Register(&treeRule{
		code: "T034", severity: tt.SeverityWarning,
		doc:     "delete_device() should call super().delete_device() to release base-class resources.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   lifecycleSuperCheck("delete_device"),
	})
	Register(&treeRule{
		code: "T035", severity: tt.SeverityWarning,
		doc:     "always_executed_hook() should call super().always_executed_hook().",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   lifecycleSuperCheck("always_executed_hook"),
	})
	Register(&treeRule{
		code: "T040", severity: tt.SeverityWarning,
		doc:     "device_property should have a default_value to avoid failures when unconfigured.",
		handles: []pyast.Kind{pyast.KindAnnAssign},
		check:   checkPropertyDefault,
	})
	Register(&treeRule{
		code: "T041", severity: tt.SeverityInfo,
		doc:     "device_property should have a 'doc' parameter describing its purpose.",
		handles: []pyast.Kind{pyast.KindAnnAssign},
		check:   checkPropertyDoc,
	})
	Register(&treeRule{
		code: "T042", severity: tt.SeverityInfo,
		doc:     "Tango device class should define init_device() to initialise internal state.",
		handles: []pyast.Kind{pyast.KindClassDef},
		check:   checkInitDeviceDefined,
	})
	Register(&treeRule{
		code: "T043", severity: tt.SeverityWarning,
		doc:     "__del__() is unreliable in Tango; use delete_device() to release resources.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkDelOverride,
	})
	Register(&treeRule{
		code: "T044", severity: tt.SeverityInfo,
		doc:     "Tango @attribute should have a 'label' parameter for the control-system UI.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkAttributeLabel,
	})
	Register(&treeRule{
		code: "T045", severity: tt.SeverityWarning,
		doc:     "READ_WRITE @attribute should have a corresponding write_<name>() method.",
		handles: []pyast.Kind{pyast.KindClassDef},
		check:   checkReadWriteWriter,
	})
	Register(&treeRule{
		code: "T046", severity: tt.SeverityWarning,
		doc:     "time.sleep() inside a device method blocks the Tango event loop.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkSleepInDevice,
	})
	Register(&treeRule{
		code: "T047", severity: tt.SeverityWarning,
		doc:     "threading.Thread in a device class; prefer Tango green mode or DeviceThread.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkThreadingInDevice,
	})
	Register(&treeRule{
		code: "T049", severity: tt.SeverityInfo,
		doc:     "@command with arguments or a return value should declare dtype_in / dtype_out.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkCommandDtypes,
	})
}

func checkDeviceClassNaming(n *pyast.Node, ctx *RuleContext) []Violation {
	name := n.Name()
	if !ctx.InDeviceClass || name == "" || startsUpper(name) {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Device class '%s' should start with uppercase letter", name),
	}}
}

// checkPropertyAnnotation can only match a property declared without
// an annotation, which the annotated-assignment kind rules out by
// construction. The rule stays registered so the code is reserved and
// listed.
func checkPropertyAnnotation(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	name, ok := isDevicePropertyDecl(n)
	if !ok || n.Annotation() != nil {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Device property '%s' must have type annotation", name),
	}}
}

func checkPropertyNaming(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	name, ok := isDevicePropertyDecl(n)
	if !ok || startsUpper(name) {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Device property '%s' should use PascalCase", name),
	}}
}

func checkAttributeDocstring(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute {
		return nil
	}
	if doc, ok := pyast.Docstring(n); ok && doc != "" {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute '%s' should have a docstring", n.Name()),
	}}
}

func checkAttributeReturnType(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute || n.Annotation() != nil {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute '%s' must have return type annotation", n.Name()),
	}}
}

func checkAttributeNameMatch(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute {
		return nil
	}
	configured, ok := ctx.AttributeConfig["name"]
	if !ok || !truthy(configured) {
		return nil
	}
	if s, isStr := configured.(string); isStr && s == n.Name() {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute name '%v' differs from method name '%s'", configured, n.Name()),
	}}
}

func checkAttributeDescription(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute {
		return nil
	}
	if _, ok := ctx.AttributeConfig["description"]; ok {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute '%s' should have 'description' parameter", n.Name()),
	}}
}

func checkAttributeUnit(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute || strings.HasSuffix(n.Name(), "Status") {
		return nil
	}
	if _, ok := ctx.AttributeConfig["unit"]; ok {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute '%s' may need 'unit' parameter", n.Name()),
	}}
}

func checkAttributeQuality(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute {
		return nil
	}
	// A leading docstring does not count toward the body, so a plain
	// "docstring + return" reader stays quiet.
	body := n.Body()
	if len(body) > 0 && isConstantExpr(body[0]) {
		body = body[1:]
	}
	if hasCallTo(n, "set_validity") || len(body) <= 1 {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute '%s' may need quality validation", n.Name()),
	}}
}

func isConstantExpr(stmt *pyast.Node) bool {
	if stmt.Kind() != pyast.KindExprStmt {
		return false
	}
	kids := stmt.NamedChildren()
	return len(kids) == 1 && kids[0].Kind() == pyast.KindConstant
}

func checkCommandDocstring(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoCommand {
		return nil
	}
	if doc, ok := pyast.Docstring(n); ok && doc != "" {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Command '%s' should have a docstring", n.Name()),
	}}
}

// commonCommandNames are conventional Tango command names exempt from
// the PascalCase check.
var commonCommandNames = map[string]struct{}{
	"Init": {}, "On": {}, "Off": {}, "State": {}, "Status": {}, "Standby": {}, "Reset": {},
}

func checkCommandNaming(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoCommand {
		return nil
	}
	name := n.Name()
	if _, ok := commonCommandNames[name]; ok || name == "" || startsUpper(name) {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Command '%s' should use PascalCase", name),
	}}
}

func checkInitOverride(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass || n.Name() != "__init__" {
		return nil
	}
	return []Violation{{
		Node: n,
		Message: fmt.Sprintf(
			"Device class '%s' must not override '__init__'; override 'init_device()' instead",
			ctx.CurrentClass),
	}}
}

func lifecycleSuperCheck(method string) func(*pyast.Node, *RuleContext) []Violation {
	msg := fmt.Sprintf("%s() should call super().%s()", method, method)
	return func(n *pyast.Node, ctx *RuleContext) []Violation {
		if !ctx.InDeviceClass || n.Name() != method {
			return nil
		}
		if callsSuperMethod(n, method) {
			return nil
		}
		return []Violation{{Node: n, Message: msg}}
	}
}

func checkPropertyDefault(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	name, ok := isDevicePropertyDecl(n)
	if !ok {
		return nil
	}
	if _, ok := pyast.CallKeywords(n.AssignValue())["default_value"]; ok {
		return nil
	}
	return []Violation{{
		Node: n,
		Message: fmt.Sprintf(
			"Device property '%s' should have a 'default_value' to avoid failures when the property is unconfigured",
			name),
	}}
}

func checkPropertyDoc(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	name, ok := isDevicePropertyDecl(n)
	if !ok {
		return nil
	}
	if _, ok := pyast.CallKeywords(n.AssignValue())["doc"]; ok {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Device property '%s' should have a 'doc' parameter", name),
	}}
}

func checkInitDeviceDefined(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	if _, ok := methodNames(n)["init_device"]; ok {
		return nil
	}
	return []Violation{{
		Node: n,
		Message: fmt.Sprintf(
			"Device class '%s' does not define init_device(); consider overriding it to initialise internal state",
			n.Name()),
	}}
}

func checkDelOverride(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass || n.Name() != "__del__" {
		return nil
	}
	return []Violation{{
		Node: n,
		Message: fmt.Sprintf(
			"Device class '%s' defines __del__(); use delete_device() to release resources instead",
			ctx.CurrentClass),
	}}
}

func checkAttributeLabel(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoAttribute {
		return nil
	}
	if _, ok := ctx.AttributeConfig["label"]; ok {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: fmt.Sprintf("Attribute '%s' should have a 'label' parameter", n.Name()),
	}}
}

func checkReadWriteWriter(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	names := methodNames(n)
	var out []Violation
	for _, fn := range pyast.BodyFunctions(n) {
		for _, dec := range fn.Decorators() {
			if !hasReadWriteAccess(dec) {
				continue
			}
			writeName := "write_" + fn.Name()
			if _, ok := names[writeName]; ok {
				continue
			}
			out = append(out, Violation{
				Node: fn,
				Message: fmt.Sprintf(
					"READ_WRITE attribute '%s' is missing '%s()' method", fn.Name(), writeName),
			})
		}
	}
	return out
}

// One finding per function is enough for the blocking-call rules; the
// first occurrence names the problem.
func checkSleepInDevice(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	call := firstCallTo(n, func(name string) bool {
		return name == "sleep" || name == "time.sleep"
	})
	if call == nil {
		return nil
	}
	return []Violation{{
		Node: call,
		Message: fmt.Sprintf(
			"time.sleep() in '%s' blocks the Tango event loop; use a non-blocking approach or green mode",
			n.Name()),
	}}
}

func checkThreadingInDevice(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	call := firstCallTo(n, func(name string) bool {
		return strings.Contains(name, "Thread") &&
			(strings.Contains(name, "threading") || name == "Thread")
	})
	if call == nil {
		return nil
	}
	return []Violation{{
		Node: call,
		Message: fmt.Sprintf(
			"threading.Thread in '%s'; prefer Tango green mode or tango.utils.DeviceThread",
			n.Name()),
	}}
}

func checkCommandDtypes(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.IsTangoCommand {
		return nil
	}
	// The command decorator's kwargs are resolved from the node itself;
	// the context config is only populated for @attribute.
	var cmdKwargs map[string]any
	for _, dec := range n.Decorators() {
		name, kwargs, ok := pyast.DecoratorInfo(dec)
		if ok && strings.Contains(name, "command") {
			cmdKwargs = kwargs
			break
		}
	}
	var out []Violation
	if len(n.Params())-1 > 0 {
		if _, ok := cmdKwargs["dtype_in"]; !ok {
			out = append(out, Violation{
				Node: n,
				Message: fmt.Sprintf(
					"Command '%s' takes arguments but is missing 'dtype_in' declaration", n.Name()),
			})
		}
	}
	if n.Annotation() != nil {
		if _, ok := cmdKwargs["dtype_out"]; !ok {
			out = append(out, Violation{
				Node: n,
				Message: fmt.Sprintf(
					"Command '%s' has a return annotation but is missing 'dtype_out' declaration", n.Name()),
			})
		}
	}
	return out
}
