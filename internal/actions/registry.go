package actions

import "github.com/bedolaga/bedolaga-console/internal/rbac"

// Action keys of the catalog.
const (
	KeyExtendSubscription = "extend_subscription"
	KeyRechargeBalance    = "recharge_balance"
	KeyBlockUser          = "block_user"
	KeySyncAccess         = "sync_access"
)

// Block modes accepted by the block_user action.
const (
	BlockModeBlock   = "block"
	BlockModeUnblock = "unblock"
)

// Sync modes accepted by the sync_access action.
const (
	SyncToPanel         = "to_panel"
	SyncFromPanelAll    = "from_panel_all"
	SyncFromPanelUpdate = "from_panel_update"
	SyncStatuses        = "sync_statuses"
)

// Bot user statuses pushed through the web API.
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// Registry is the fixed catalog of admin actions.
type Registry struct {
	definitions []Definition
	byKey       map[string]Definition
}

// NewRegistry builds the catalog.
func NewRegistry() *Registry {
	definitions := []Definition{
		{
			Key:            KeyExtendSubscription,
			TitleKey:       "catalog.extend.title",
			DescriptionKey: "catalog.extend.desc",
			Permission:     rbac.PermActionExtend,
			Fields: []FieldSpec{
				{Name: "user_id", LabelKey: "fields.user_id", Type: FieldInteger, Required: true, Min: 1, Placeholder: "102"},
				{Name: "days", LabelKey: "fields.days", Type: FieldInteger, Required: true, Min: 1, Default: "7", Placeholder: "7"},
			},
		},
		{
			Key:            KeyRechargeBalance,
			TitleKey:       "catalog.balance.title",
			DescriptionKey: "catalog.balance.desc",
			Permission:     rbac.PermActionBalance,
			Fields: []FieldSpec{
				{Name: "user_id", LabelKey: "fields.user_id", Type: FieldInteger, Required: true, Min: 1},
				{Name: "amount_rub", LabelKey: "fields.amount_rub", Type: FieldAmount, Required: true, Placeholder: "100.00"},
				{Name: "description", LabelKey: "fields.description", Type: FieldText, Rows: 3},
				{Name: "create_transaction", LabelKey: "fields.create_transaction", Type: FieldBoolean, Default: "true"},
			},
		},
		{
			Key:            KeyBlockUser,
			TitleKey:       "catalog.block.title",
			DescriptionKey: "catalog.block.desc",
			Permission:     rbac.PermActionBlock,
			Fields: []FieldSpec{
				{Name: "user_id", LabelKey: "fields.user_id", Type: FieldInteger, Required: true, Min: 1},
				{Name: "mode", LabelKey: "fields.mode", Type: FieldChoice, Default: BlockModeBlock, Options: []ChoiceOption{
					{Value: BlockModeBlock, LabelKey: "options.block"},
					{Value: BlockModeUnblock, LabelKey: "options.unblock"},
				}},
			},
		},
		{
			Key:            KeySyncAccess,
			TitleKey:       "catalog.sync.title",
			DescriptionKey: "catalog.sync.desc",
			Permission:     rbac.PermActionSync,
			Fields: []FieldSpec{
				{Name: "mode", LabelKey: "fields.mode", Type: FieldChoice, Default: SyncToPanel, Options: []ChoiceOption{
					{Value: SyncToPanel, LabelKey: "options.to_panel"},
					{Value: SyncFromPanelAll, LabelKey: "options.from_panel_all"},
					{Value: SyncFromPanelUpdate, LabelKey: "options.from_panel_update"},
					{Value: SyncStatuses, LabelKey: "options.sync_statuses"},
				}},
			},
		},
	}
	byKey := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		byKey[def.Key] = def
	}
	return &Registry{definitions: definitions, byKey: byKey}
}

// All returns the catalog in display order.
func (r *Registry) All() []Definition {
	return r.definitions
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	def, ok := r.byKey[key]
	return def, ok
}

// Allowed maps every action key to whether the permission set covers it.
func (r *Registry) Allowed(perms rbac.PermissionSet) map[string]bool {
	allowed := make(map[string]bool, len(r.definitions))
	for _, def := range r.definitions {
		allowed[def.Key] = def.Permission == "" || perms.Has(def.Permission)
	}
	return allowed
}
