// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// A single list view shows the playlist collection in display order. The user toggles the
// listened flag with space, cycles the listened filter with tab, searches by name with "/",
// reverses the order with r (animated in two short steps) and switches light and dark palettes
// with t. Enter opens the selected playlist in the browser.
//
// Only a page of matches is rendered at first. Moving the cursor near the end of the rendered
// rows starts a [pager.Pager] load, completed by a tick after the configured delay.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
