// Package ui contains the Bubble Tea program that presents a menu tree as a
// full-screen launcher. The Model focuses on message orchestration while
// dedicated helpers own navigation, input, rendering, and reloads.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Key presses become nav.Events (internal/ui/navigation.go). The
//     nav.Machine owns the stack of open submenus and the selection; the
//     Model only mirrors that stack as display levels.
//   - While filtering (internal/ui/input.go) key presses edit the query of
//     the current level instead, and the cursor over the filtered items is
//     pushed back into the machine with Focus.
//
// State ownership:
//   - Per-level display state lives in internal/ui/state.Level: the filter,
//     the cursor within the filtered items, and the viewport.
//   - The menu tree is replaced wholesale on reload; nav.Machine.Reset keeps
//     the open submenus when they still exist.
//
// Commands:
//   - Selecting a command entry hands it to the internal/ui/command Bus,
//     which returns a tea.Cmd. Foreground commands take over the terminal
//     through tea.Exec; terminal commands run asynchronously and mark the
//     model busy; detached commands never block input.
//   - A command.ResultMsg clears the busy flag and reports failures on the
//     status line.
//
// Reloads:
//   - A backend.Watcher streams reparsed trees when the menu file changes.
//     Failed reloads keep the current tree.
package ui
