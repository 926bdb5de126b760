// Package components holds small server-rendered building blocks shared
// by the pages. Callers can pass extra Tailwind classes, which are merged
// over the defaults so later utilities win.
package components
