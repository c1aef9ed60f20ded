package ansiblels

import "strings"

func set(ks ...string) map[string]bool {
	res := make(map[string]bool, len(ks))
	for _, k := range ks {
		res[k] = true
	}
	return res
}

var (
	PlayKeywords = set("any_errors_fatal", "become", "become_exe", "become_flags",
		"become_method", "become_user", "check_mode", "collections", "connection",
		"debugger", "diff", "environment", "fact_path", "force_handlers",
		"gather_facts", "gather_subset", "gather_timeout", "handlers", "hosts",
		"ignore_errors", "ignore_unreachable", "max_fail_percentage",
		"module_defaults", "name", "no_log", "order", "port", "post_tasks",
		"pre_tasks", "remote_user", "roles", "run_once", "serial", "strategy",
		"tags", "tasks", "throttle", "timeout", "vars", "vars_files", "vars_prompt")

	RoleKeywords = set("any_errors_fatal", "become", "become_exe", "become_flags",
		"become_method", "become_user", "check_mode", "collections", "connection",
		"debugger", "delegate_facts", "delegate_to", "diff", "environment",
		"ignore_errors", "ignore_unreachable", "module_defaults", "name", "no_log",
		"port", "remote_user", "run_once", "tags", "throttle", "timeout", "vars",
		"when")

	BlockKeywords = set("always", "any_errors_fatal", "become", "become_exe",
		"become_flags", "become_method", "become_user", "block", "check_mode",
		"collections", "connection", "debugger", "delegate_facts", "delegate_to",
		"diff", "environment", "ignore_errors", "ignore_unreachable",
		"module_defaults", "name", "no_log", "notify", "port", "remote_user",
		"rescue", "run_once", "tags", "throttle", "timeout", "vars", "when")

	TaskKeywords = set("action", "any_errors_fatal", "args", "async", "become",
		"become_exe", "become_flags", "become_method", "become_user",
		"changed_when", "check_mode", "collections", "connection", "debugger",
		"delay", "delegate_facts", "delegate_to", "diff", "environment",
		"failed_when", "ignore_errors", "ignore_unreachable", "local_action",
		"loop", "loop_control", "module_defaults", "name", "no_log", "notify",
		"poll", "port", "register", "remote_user", "retries", "run_once", "tags",
		"throttle", "timeout", "until", "vars", "when", "listen")

	// PlayExclusiveKeywords are play keywords valid nowhere else.
	PlayExclusiveKeywords = exclusive()
)

func exclusive() map[string]bool {
	res := map[string]bool{}
	for k := range PlayKeywords {
		if !TaskKeywords[k] && !RoleKeywords[k] && !BlockKeywords[k] {
			res[k] = true
		}
	}
	return res
}

// IsTaskKeyword reports whether k is a task keyword rather than a module
// name.
func IsTaskKeyword(k string) bool {
	return TaskKeywords[k] || strings.HasPrefix(k, "with_")
}
