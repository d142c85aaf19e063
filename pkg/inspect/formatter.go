package inspect

import (
	"fmt"
	"strings"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes data type, default and eventing information
	ShowMetadata bool

	// ShowURLs includes control URLs and the description location
	ShowURLs bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		ShowURLs:     false,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatDevice formats a device tree including embedded devices.
func (f *Formatter) FormatDevice(tree *DeviceTree) string {
	var sb strings.Builder
	f.writeDevice(&sb, 0, tree)
	return sb.String()
}

func (f *Formatter) writeDevice(sb *strings.Builder, depth int, tree *DeviceTree) {
	name := tree.FriendlyName
	if name == "" {
		name = "(unnamed)"
	}
	sb.WriteString(f.Indent(depth, fmt.Sprintf("%s [%s]\n", name, tree.UDN)))
	if tree.DeviceType != "" {
		sb.WriteString(f.Indent(depth+1, "type: "+tree.DeviceType+"\n"))
	}
	if tree.Manufacturer != "" || tree.ModelName != "" {
		sb.WriteString(f.Indent(depth+1, fmt.Sprintf("model: %s\n", strings.TrimSpace(tree.Manufacturer+" "+tree.ModelName))))
	}
	if f.ShowURLs && tree.Location != "" {
		sb.WriteString(f.Indent(depth+1, "location: "+tree.Location+"\n"))
	}

	if len(tree.Services) == 0 {
		sb.WriteString(f.Indent(depth+1, "(no services)\n"))
	}
	for i := range tree.Services {
		sb.WriteString(f.FormatService(depth+1, &tree.Services[i]))
	}
	for i := range tree.Devices {
		f.writeDevice(sb, depth+1, &tree.Devices[i])
	}
}

// FormatService formats a service and its state variables.
func (f *Formatter) FormatService(depth int, info *ServiceInfo) string {
	var sb strings.Builder
	sb.WriteString(f.Indent(depth, fmt.Sprintf("%s:%d\n", info.Name, info.Version)))
	if f.ShowURLs && info.ControlURL != "" {
		sb.WriteString(f.Indent(depth+1, "control: "+info.ControlURL+"\n"))
	}
	if len(info.Variables) == 0 {
		sb.WriteString(f.Indent(depth+1, "(no state variables)\n"))
	}
	for i := range info.Variables {
		sb.WriteString(f.FormatVariable(depth+1, &info.Variables[i]))
	}
	return sb.String()
}

// FormatVariable formats a single state variable on one line.
func (f *Formatter) FormatVariable(depth int, info *VariableInfo) string {
	var sb strings.Builder
	sb.WriteString(info.Name)
	if c := FormatConstraint(info); c != "" {
		sb.WriteString(" " + c)
	}
	if f.ShowMetadata {
		meta := []string{info.DataType}
		if info.DefaultValue != "" {
			meta = append(meta, "default "+info.DefaultValue)
		}
		if info.SendEvents {
			meta = append(meta, "evented")
		}
		sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
	}
	return f.Indent(depth, sb.String()+"\n")
}

// FormatConstraint formats the allowed range or value list of a variable.
func FormatConstraint(info *VariableInfo) string {
	switch {
	case info.Range != nil:
		return info.Range.String()
	case len(info.AllowedValues) > 0:
		return "{" + strings.Join(info.AllowedValues, ", ") + "}"
	default:
		return ""
	}
}
