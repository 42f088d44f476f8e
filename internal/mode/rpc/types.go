// ABOUTME: RPC request/response envelopes and per-method payloads
// ABOUTME: JSON-serializable types exchanged with the controlling process

package rpc

import "encoding/json"

// Request represents an RPC request from an external client.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents an RPC response to an external client.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Error represents an RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Methods
const (
	MethodParse      = "bar.parse"
	MethodClick      = "bar.click"
	MethodExpose     = "bar.expose"
	MethodSettings   = "bar.settings"
	MethodRegions    = "bar.regions"
	MethodTrayReport = "tray.report"
)

// ParseParams is the payload of bar.parse.
type ParseParams struct {
	Text  string `json:"text"`
	Force bool   `json:"force,omitempty"`
}

// ParseResult lists the non-fatal interpreter errors of a parse.
type ParseResult struct {
	Errors []string `json:"errors"`
}

// ClickParams is the payload of bar.click. Button 0 means left.
type ClickParams struct {
	X      int `json:"x"`
	Y      int `json:"y,omitempty"`
	Button int `json:"button,omitempty"`
}

// ClickResult reports whether a region matched and which command ran.
type ClickResult struct {
	Dispatched bool   `json:"dispatched"`
	Command    string `json:"command,omitempty"`
}

// ExposeResult is the response payload of bar.expose.
type ExposeResult struct {
	Flushed bool `json:"flushed"`
}

// TrayParams is the payload of tray.report.
type TrayParams struct {
	Slots int `json:"slots"`
}

// TrayResult echoes the slot count now in effect.
type TrayResult struct {
	Slots int `json:"slots"`
}

// TrayInfo describes the tray settings of a bar.
type TrayInfo struct {
	Position string `json:"position"`
	Slots    int    `json:"slots"`
	Width    int    `json:"width"`
	Spacing  int    `json:"spacing"`
}

// SettingsResult is the response payload of bar.settings.
type SettingsResult struct {
	Name    string   `json:"name"`
	Monitor string   `json:"monitor"`
	WMName  string   `json:"wm_name"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Bottom  bool     `json:"bottom"`
	Tray    TrayInfo `json:"tray"`
}

// RegionInfo describes one clickable region.
type RegionInfo struct {
	Button  int    `json:"button"`
	Zone    string `json:"zone"`
	Command string `json:"command"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Open    bool   `json:"open,omitempty"`
}

// RegionsResult is the response payload of bar.regions.
type RegionsResult struct {
	Regions []RegionInfo `json:"regions"`
}
