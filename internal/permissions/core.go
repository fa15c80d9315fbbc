package permissions

func init() {
	perms := []*Permission{
		{
			ID:          "candidate.view",
			Module:      "core",
			Description: "View candidates and their funnel history",
		},
		{
			ID:          "candidate.create",
			Module:      "core",
			DependsOn:   []string{"candidate.view"},
			Description: "Add candidates through intake",
		},
		{
			ID:          "candidate.edit",
			Module:      "core",
			DependsOn:   []string{"candidate.view"},
			Description: "Edit candidates, statuses, and activation state",
		},
		{
			ID:          "candidate.delete",
			Module:      "core",
			DependsOn:   []string{"candidate.view", "candidate.edit"},
			Description: "Delete candidates and their dependent records",
		},
		{
			ID:          "schedule.view",
			Module:      "core",
			Description: "View interview schedules",
		},
		{
			ID:          "schedule.manage",
			Module:      "core",
			DependsOn:   []string{"schedule.view", "candidate.view"},
			Description: "Create interview slots and run bulk updates",
		},
		{
			ID:          "cvlink.manage",
			Module:      "core",
			DependsOn:   []string{"candidate.view"},
			Description: "Activate and pause shareable CV links",
		},
		{
			ID:          "replacement.view",
			Module:      "core",
			Description: "View the replacement ledger",
		},
		{
			ID:          "replacement.manage",
			Module:      "core",
			DependsOn:   []string{"replacement.view", "candidate.view"},
			Description: "Record candidate replacements",
		},
		{
			ID:          "analytics.view",
			Module:      "core",
			Description: "View funnel analytics and reports",
		},
		{
			ID:          "registry.view",
			Module:      "core",
			Description: "View reference registries and outlets",
		},
		{
			ID:          "registry.manage",
			Module:      "core",
			DependsOn:   []string{"registry.view"},
			Description: "Manage statuses, positions, locations, outlet types, and outlets",
		},
		{
			ID:          "user.view",
			Module:      "core",
			Description: "View HR users",
		},
		{
			ID:          "user.create",
			Module:      "core",
			DependsOn:   []string{"user.view"},
			Description: "Create HR users",
		},
		{
			ID:          "audit.view",
			Module:      "core",
			Description: "View the audit log",
		},
	}

	for _, perm := range perms {
		MustRegister(perm)
	}
}
