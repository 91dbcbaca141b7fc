// SPDX-License-Identifier: Apache-2.0

package util

import "strings"

// QuoteArgForShell quotes an argument for safe use in a POSIX shell command.
// It uses single quotes and escapes any internal single quotes.
// A "~/" prefix is left outside the quotes so the remote shell can still
// expand the home directory.
func QuoteArgForShell(arg string) string {
	if strings.HasPrefix(arg, "~/") {
		quotedPart := strings.ReplaceAll(arg[2:], "'", `'\''`)
		return `~/'` + quotedPart + `'`
	}

	quotedArg := strings.ReplaceAll(arg, "'", `'\''`)
	return `'` + quotedArg + `'`
}

// QuoteArgsForShell quotes each argument and joins them with spaces.
func QuoteArgsForShell(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, a := range args {
		quoted = append(quoted, QuoteArgForShell(a))
	}
	return strings.Join(quoted, " ")
}
