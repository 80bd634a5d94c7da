// Package i18n holds the dictionary-based translations for the console UI and
// the action pipeline's user-facing messages. Russian is the default locale
// with English as fallback, matching the bot's audience.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLocale is used when negotiation fails.
const DefaultLocale = "ru"

// FallbackLocale supplies messages missing from a locale table.
const FallbackLocale = "en"

var supported = []language.Tag{
	language.Russian, // first entry wins on no match
	language.English,
}

var matcher = language.NewMatcher(supported)

// ResolveLocale negotiates a supported locale from an Accept-Language header.
func ResolveLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	base, _ := supported[index].Base()
	return base.String()
}

// T translates key for the locale, formatting args into the template. Missing
// keys fall back to English and then to the key itself.
func T(locale, key string, args ...any) string {
	table, ok := messages[locale]
	if !ok {
		table = messages[DefaultLocale]
	}
	template, ok := table[key]
	if !ok {
		template, ok = messages[FallbackLocale][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

var messages = map[string]map[string]string{
	"en": {
		"nav.dashboard": "Dashboard",
		"nav.actions":   "Actions",
		"nav.users":     "Users",
		"nav.audit":     "Audit log",
		"nav.security":  "Security",
		"nav.logout":    "Logout",

		"layout.subtitle": "Bedolaga admin panel",
		"layout.welcome":  "Signed in as %s",
		"layout.guest":    "Guest user",

		"actions.unknown.title":           "Unknown action",
		"actions.unknown.message":         "The selected action is not recognized. Refresh the page and try again.",
		"actions.denied.title":            "Insufficient permissions",
		"actions.denied.message":          "You do not have permission to run this action.",
		"actions.api_unconfigured.title":  "Web API not configured",
		"actions.api_unconfigured.message": "Set WEBAPI_BASE_URL and WEBAPI_API_KEY, then restart the application.",
		"actions.rate_limited.title":      "Too many requests",
		"actions.rate_limited.message":    "Operation limit exceeded. Try again later.",
		"actions.csrf.title":              "CSRF check failed",
		"actions.csrf.missing":            "CSRF token is missing.",
		"actions.csrf.format":             "CSRF token has an invalid format.",
		"actions.csrf.length":             "CSRF token has an invalid format.",
		"actions.csrf.signature":          "CSRF verification failed.",
		"actions.csrf.expired":            "CSRF token has expired.",
		"actions.validation.title":        "Validation error",
		"actions.confirm.title":           "Confirmation required",
		"actions.webapi_config.title":     "Web API unavailable",
		"actions.webapi_error.title":      "Web API returned an error",
		"actions.unexpected.title":        "Unexpected error",
		"actions.unexpected.message":      "The request was not completed.",

		"actions.extend.title":    "Subscription extended",
		"actions.extend.message":  "Subscription of user %d extended by %d days.",
		"actions.extend.end_date": " New end date: %s.",
		"actions.extend.missing":  "The user has no active subscription.",

		"actions.balance.title":   "Balance updated",
		"actions.balance.message": "Balance of user %d adjusted by %s ₽.",
		"actions.balance.current": " Current balance: %s ₽.",

		"actions.block.title":     "Status updated",
		"actions.block.message":   "Status of user %d updated (%s). User %s.",
		"actions.block.blocked":   "blocked",
		"actions.block.unblocked": "unblocked",

		"actions.sync.title":          "Synchronization started",
		"actions.sync.to_panel":       "Data push to RemnaWave completed.",
		"actions.sync.from_panel_all": "Full user import from RemnaWave completed.",
		"actions.sync.from_panel_upd": "Updates received from RemnaWave.",
		"actions.sync.statuses":       "Subscription statuses synchronized.",

		"validate.required":      "%s: a value is required.",
		"validate.integer":       "%s: a whole number is expected.",
		"validate.min":           "%s: the value must be at least %d.",
		"validate.amount_format": "%s: invalid amount format.",
		"validate.amount_zero":   "The amount must be non-zero.",
		"validate.choice":        "%s: choose one of the allowed values.",
		"validate.hard_limit":    "Amount %s ₽ exceeds the hard limit of %s ₽.",
		"validate.confirm_amount": "Confirm the operation by ticking the confirmation checkbox.",
		"validate.confirm_block":  "Confirm the block by ticking the checkbox.",
		"validate.block_mode":     "Choose a valid status change.",
		"validate.sync_mode":      "Unknown synchronization mode.",

		"actions.balance.default_desc": "Adjustment via the admin panel",

		"catalog.extend.title":  "Extend subscription",
		"catalog.extend.desc":   "Extends the user's current subscription through the web API.",
		"catalog.balance.title": "Adjust balance",
		"catalog.balance.desc":  "Credits or debits a user's balance with an optional transaction record.",
		"catalog.block.title":   "Change user status",
		"catalog.block.desc":    "Switches a user between active and blocked.",
		"catalog.sync.title":    "RemnaWave synchronization",
		"catalog.sync.desc":     "Starts a data sync between the bot and the RemnaWave panel.",

		"options.block":             "Block",
		"options.unblock":           "Unblock",
		"options.to_panel":          "Push data to the panel",
		"options.from_panel_all":    "Import from the panel (all users)",
		"options.from_panel_update": "Import from the panel (updates only)",
		"options.sync_statuses":     "Synchronize subscription statuses",

		"fields.user_id":            "User ID",
		"fields.days":               "Number of days",
		"fields.amount_rub":         "Amount, ₽",
		"fields.description":        "Comment",
		"fields.create_transaction": "Create a transaction record",
		"fields.mode":               "Mode",
		"fields.confirm_amount":     "I confirm this amount",
		"fields.confirm_block":      "I confirm this status change",
	},
	"ru": {
		"nav.dashboard": "Обзор",
		"nav.actions":   "Действия web API",
		"nav.users":     "Пользователи",
		"nav.audit":     "Журнал действий",
		"nav.security":  "Безопасность",
		"nav.logout":    "Выход",

		"layout.subtitle": "Панель управления Bedolaga",
		"layout.welcome":  "Вы вошли как %s",
		"layout.guest":    "Гость панели",

		"actions.unknown.title":           "Неизвестное действие",
		"actions.unknown.message":         "Выбранное действие не распознано. Обновите страницу и попробуйте снова.",
		"actions.denied.title":            "Недостаточно прав",
		"actions.denied.message":          "У вас нет прав на выполнение этого действия.",
		"actions.api_unconfigured.title":  "Web API не настроено",
		"actions.api_unconfigured.message": "Укажите WEBAPI_BASE_URL и WEBAPI_API_KEY, затем перезапустите приложение.",
		"actions.rate_limited.title":      "Слишком много запросов",
		"actions.rate_limited.message":    "Превышен лимит операций. Повторите попытку позже.",
		"actions.csrf.title":              "CSRF-проверка не пройдена",
		"actions.csrf.missing":            "CSRF-токен отсутствует.",
		"actions.csrf.format":             "Неверный формат CSRF-токена.",
		"actions.csrf.length":             "Неверный формат CSRF-токена.",
		"actions.csrf.signature":          "CSRF-проверка не пройдена.",
		"actions.csrf.expired":            "CSRF-токен истёк.",
		"actions.validation.title":        "Ошибка валидации",
		"actions.confirm.title":           "Требуется подтверждение",
		"actions.webapi_config.title":     "Web API недоступно",
		"actions.webapi_error.title":      "Web API ответило ошибкой",
		"actions.unexpected.title":        "Непредвиденная ошибка",
		"actions.unexpected.message":      "Запрос не выполнен.",

		"actions.extend.title":    "Подписка продлена",
		"actions.extend.message":  "Подписка пользователя %d продлена на %d дн.",
		"actions.extend.end_date": " Новая дата окончания: %s.",
		"actions.extend.missing":  "У пользователя нет активной подписки.",

		"actions.balance.title":   "Баланс обновлён",
		"actions.balance.message": "Баланс пользователя %d скорректирован на %s ₽.",
		"actions.balance.current": " Текущий баланс: %s ₽.",

		"actions.block.title":     "Статус обновлён",
		"actions.block.message":   "Статус пользователя %d обновлён (%s). Пользователь %s.",
		"actions.block.blocked":   "заблокирован",
		"actions.block.unblocked": "разблокирован",

		"actions.sync.title":          "Синхронизация запущена",
		"actions.sync.to_panel":       "Выгрузка данных в RemnaWave выполнена.",
		"actions.sync.from_panel_all": "Загрузка всех пользователей из RemnaWave завершена.",
		"actions.sync.from_panel_upd": "Получены обновления из RemnaWave.",
		"actions.sync.statuses":       "Статусы подписок синхронизированы.",

		"validate.required":      "%s: укажите значение.",
		"validate.integer":       "%s: ожидается целое число.",
		"validate.min":           "%s: значение должно быть не меньше %d.",
		"validate.amount_format": "%s: некорректный формат.",
		"validate.amount_zero":   "Сумма должна отличаться от нуля.",
		"validate.choice":        "%s: выберите одно из допустимых значений.",
		"validate.hard_limit":    "Сумма %s ₽ превышает жёсткий лимит %s ₽.",
		"validate.confirm_amount": "Подтвердите выполнение операции, отметив чекбокс подтверждения.",
		"validate.confirm_block":  "Подтвердите блокировку, отметив чекбокс.",
		"validate.block_mode":     "Выберите корректное действие для изменения статуса.",
		"validate.sync_mode":      "Неизвестный режим синхронизации.",

		"actions.balance.default_desc": "Корректировка через админку",

		"catalog.extend.title":  "Продлить подписку",
		"catalog.extend.desc":   "Продлевает текущую подписку пользователя через web API.",
		"catalog.balance.title": "Начислить баланс",
		"catalog.balance.desc":  "Начисляет или списывает баланс пользователя с опциональной записью в транзакции.",
		"catalog.block.title":   "Обновить статус пользователя",
		"catalog.block.desc":    "Переключает статус пользователя между активным и заблокированным.",
		"catalog.sync.title":    "Синхронизация с RemnaWave",
		"catalog.sync.desc":     "Запускает синхронизацию данных между ботом и RemnaWave панелью.",

		"options.block":             "Заблокировать",
		"options.unblock":           "Разблокировать",
		"options.to_panel":          "Выгрузить данные в панель",
		"options.from_panel_all":    "Загрузить из панели (все пользователи)",
		"options.from_panel_update": "Загрузить из панели (только обновления)",
		"options.sync_statuses":     "Синхронизировать статусы подписок",

		"fields.user_id":            "ID пользователя",
		"fields.days":               "Количество дней",
		"fields.amount_rub":         "Сумма, ₽",
		"fields.description":        "Комментарий",
		"fields.create_transaction": "Создать запись в истории транзакций",
		"fields.mode":               "Режим",
		"fields.confirm_amount":     "Подтверждаю сумму",
		"fields.confirm_block":      "Подтверждаю смену статуса",
	},
}
