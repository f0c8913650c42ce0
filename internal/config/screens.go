package config

// DefaultScreens returns the admin screens available without a config file.
func DefaultScreens() []ScreenConfig {
	status := ColumnConfig{Key: "status", Title: "Status", Kind: "status", Searchable: true, Sortable: true, Editable: true}
	created := ColumnConfig{Key: "createdAt", Title: "Created", Kind: "date", Searchable: true, Sortable: true}

	return []ScreenConfig{
		{
			Name:       "permissions",
			Title:      "Permissions",
			Singular:   "Permission",
			NaturalKey: "code",
			Columns: []ColumnConfig{
				{Key: "name", Title: "Name", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=80"},
				{Key: "code", Title: "Code", Searchable: true, Sortable: true, Editable: true, Rules: "required,lowercase,max=60"},
				{Key: "description", Title: "Description", Searchable: true, Editable: true, Rules: "max=240"},
				status,
				created,
			},
		},
		{
			Name:       "categories",
			Title:      "Categories",
			Singular:   "Category",
			NaturalKey: "slug",
			Columns: []ColumnConfig{
				{Key: "name", Title: "Name", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=80"},
				{Key: "slug", Title: "Slug", Searchable: true, Sortable: true, Editable: true, Rules: "required,lowercase,max=80"},
				{Key: "position", Title: "Position", Kind: "number", Sortable: true, Editable: true, Secondary: "name"},
				status,
				created,
			},
		},
		{
			Name:        "shipping-prices",
			Title:       "Shipping prices",
			Singular:    "Shipping price",
			DefaultSort: "region:asc",
			Columns: []ColumnConfig{
				{Key: "region", Title: "Region", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=60", Secondary: "price"},
				{Key: "method", Title: "Method", Searchable: true, Sortable: true, Editable: true, Rules: "required,oneof=standard express pickup"},
				{Key: "price", Title: "Price", Kind: "number", Searchable: true, Sortable: true, Editable: true, Rules: "required"},
				{Key: "freeAbove", Title: "Free above", Kind: "number", Sortable: true, Editable: true},
				status,
				created,
			},
		},
		{
			Name:       "blog-posts",
			Title:      "Blog posts",
			Singular:   "Blog post",
			NaturalKey: "slug",
			Columns: []ColumnConfig{
				{Key: "title", Title: "Title", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=160"},
				{Key: "slug", Title: "Slug", Searchable: true, Editable: true, Rules: "required,lowercase,max=160"},
				{Key: "author", Title: "Author", Searchable: true, Sortable: true, Editable: true, Rules: "max=80"},
				{Key: "body", Title: "Body", Kind: "markdown", Editable: true, Rules: "required"},
				{Key: "published", Title: "Published", Kind: "bool", Sortable: true, Editable: true},
				created,
			},
		},
		{
			Name:     "faqs",
			Title:    "FAQs",
			Singular: "FAQ",
			Columns: []ColumnConfig{
				{Key: "question", Title: "Question", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=200"},
				{Key: "answer", Title: "Answer", Kind: "markdown", Searchable: true, Editable: true, Rules: "required"},
				{Key: "position", Title: "Position", Kind: "number", Sortable: true, Editable: true},
				status,
				created,
			},
		},
		{
			Name:         "bookings",
			Title:        "Bookings",
			Singular:     "Booking",
			NaturalKey:   "reference",
			ServerSearch: true,
			Columns: []ColumnConfig{
				{Key: "reference", Title: "Reference", Searchable: true, Sortable: true},
				{Key: "customerEmail", Title: "Email", Searchable: true, Sortable: true, Editable: true, Rules: "required,email"},
				{Key: "phone", Title: "Phone", Searchable: true, Editable: true, Rules: "max=32"},
				{Key: "date", Title: "Date", Kind: "date", Searchable: true, Sortable: true, Editable: true, Rules: "required", Secondary: "reference"},
				{Key: "guests", Title: "Guests", Kind: "number", Sortable: true, Editable: true},
				status,
				created,
			},
		},
		{
			Name:          "sessions",
			Title:         "Sessions",
			Singular:      "Session",
			StatusDefault: "inactive",
			Columns: []ColumnConfig{
				{Key: "user", Title: "User", Searchable: true, Sortable: true},
				{Key: "ip", Title: "IP", Searchable: true},
				{Key: "userAgent", Title: "User agent", Searchable: true},
				{Key: "expiresAt", Title: "Expires", Kind: "date", Sortable: true},
				{Key: "status", Title: "Status", Kind: "status", Searchable: true, Sortable: true},
				created,
			},
		},
		{
			Name:         "orders",
			Title:        "Orders",
			Singular:     "Order",
			NaturalKey:   "number",
			ServerSearch: true,
			Columns: []ColumnConfig{
				{Key: "number", Title: "Order", Searchable: true, Sortable: true},
				{Key: "customer", Title: "Customer", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=120"},
				{Key: "email", Title: "Email", Searchable: true, Editable: true, Rules: "required,email"},
				{Key: "total", Title: "Total", Kind: "number", Searchable: true, Sortable: true},
				status,
				created,
			},
		},
		{
			Name:     "notifications",
			Title:    "Notifications",
			Singular: "Notification",
			Columns: []ColumnConfig{
				{Key: "title", Title: "Title", Searchable: true, Sortable: true, Editable: true, Rules: "required,max=120"},
				{Key: "message", Title: "Message", Kind: "markdown", Searchable: true, Editable: true, Rules: "required,max=2000"},
				{Key: "audience", Title: "Audience", Searchable: true, Sortable: true, Editable: true, Rules: "required,oneof=all customers staff"},
				{Key: "sent", Title: "Sent", Kind: "bool", Sortable: true},
				created,
			},
		},
	}
}
