//go:build js && wasm

// Command flightdata-wasm exposes the CSV conversion to a JavaScript host.
//
//	const { csv, error } = flightdataConvertToCSV(layoutText, bytes)
package main

import (
	"syscall/js"

	"github.com/yomorun/flightdata/pkg/convert"
)

const funcConvertToCSV = "flightdataConvertToCSV"

func main() {
	js.Global().Set(funcConvertToCSV, js.FuncOf(convertToCSV))
	// keep the exported func alive
	select {}
}

// convertToCSV takes the layout as a string and the recording as a
// Uint8Array. It returns {csv} on success and {error} otherwise.
func convertToCSV(this js.Value, args []js.Value) any {
	if len(args) != 2 {
		return result("", "flightdataConvertToCSV: want 2 arguments (layout, data)")
	}
	if args[0].Type() != js.TypeString {
		return result("", "flightdataConvertToCSV: layout must be a string")
	}

	if !args[1].InstanceOf(js.Global().Get("Uint8Array")) {
		return result("", "flightdataConvertToCSV: data must be a Uint8Array")
	}
	data := make([]byte, args[1].Get("length").Int())
	js.CopyBytesToGo(data, args[1])

	csv, err := convert.ToCSV([]byte(args[0].String()), data)
	if err != nil {
		return result("", err.Error())
	}
	return result(csv, "")
}

func result(csv, errMsg string) map[string]any {
	if errMsg != "" {
		return map[string]any{"error": errMsg}
	}
	return map[string]any{"csv": csv}
}
