package i18n

var translations = map[string]map[Language]string{
	// Header
	"app.title":         {English: "PokéCollection", Spanish: "PokéColección"},
	"nav.addCollection": {English: "Add Collection", Spanish: "Agregar Colección"},
	"nav.logout":        {English: "Logout", Spanish: "Cerrar Sesión"},

	// Dashboard
	"dashboard.myCollections":     {English: "My Collections", Spanish: "Mis Colecciones"},
	"dashboard.collection":        {English: "Collection", Spanish: "Colección"},
	"dashboard.collections":       {English: "Collections", Spanish: "Colecciones"},
	"dashboard.noCollections":     {English: "No Collections Yet", Spanish: "Aún No Hay Colecciones"},
	"dashboard.noCollectionsDesc": {English: "Start building your Pokémon card collection by creating your first collection.", Spanish: "Comienza a construir tu colección de cartas Pokémon creando tu primera colección."},
	"dashboard.createFirst":       {English: "Create Your First Collection", Spanish: "Crea Tu Primera Colección"},
	"dashboard.created":           {English: "Created", Spanish: "Creada"},

	// Settings
	"settings.title":                  {English: "Settings", Spanish: "Configuración"},
	"settings.account":                {English: "Account", Spanish: "Cuenta"},
	"settings.email":                  {English: "Email Address", Spanish: "Correo Electrónico"},
	"settings.changePassword":         {English: "Change Password", Spanish: "Cambiar Contraseña"},
	"settings.language":               {English: "Language", Spanish: "Idioma"},
	"settings.appLanguage":            {English: "App Language", Spanish: "Idioma de la Aplicación"},
	"settings.selectLanguage":         {English: "Select your preferred language", Spanish: "Selecciona tu idioma preferido"},
	"settings.currency":               {English: "Currency", Spanish: "Moneda"},
	"settings.exchangeRate":           {English: "Default Exchange Rate (USD to GTQ)", Spanish: "Tasa de Cambio Predeterminada (USD a GTQ)"},
	"settings.exchangeRateDesc":       {English: "This will be used as the default rate for new collections", Spanish: "Esta será la tasa predeterminada para nuevas colecciones"},
	"settings.notifications":          {English: "Notifications", Spanish: "Notificaciones"},
	"settings.emailNotifications":     {English: "Email Notifications", Spanish: "Notificaciones por Correo"},
	"settings.emailNotificationsDesc": {English: "Receive updates about your collections", Spanish: "Recibe actualizaciones sobre tus colecciones"},
	"settings.priceAlerts":            {English: "Price Alerts", Spanish: "Alertas de Precio"},
	"settings.priceAlertsDesc":        {English: "Get notified when card values change significantly", Spanish: "Recibe notificaciones cuando los valores cambien significativamente"},
	"settings.autoUpdate":             {English: "Auto-Update Prices", Spanish: "Actualización Automática de Precios"},
	"settings.autoUpdateDesc":         {English: "Automatically update card prices daily", Spanish: "Actualiza los precios automáticamente cada día"},
	"settings.privacy":                {English: "Privacy & Security", Spanish: "Privacidad y Seguridad"},
	"settings.exportData":             {English: "Export My Data", Spanish: "Exportar Mis Datos"},
	"settings.deleteAccount":          {English: "Delete Account", Spanish: "Eliminar Cuenta"},
	"settings.save":                   {English: "Save Changes", Spanish: "Guardar Cambios"},
	"settings.cancel":                 {English: "Cancel", Spanish: "Cancelar"},

	// Collection detail
	"collection.backToCollections": {English: "Back to Collections", Spanish: "Volver a Colecciones"},
	"collection.exchangeRate":      {English: "Exchange Rate:", Spanish: "Tasa de Cambio:"},
	"collection.share":             {English: "Share", Spanish: "Compartir"},
	"collection.addCard":           {English: "Add Card", Spanish: "Agregar Carta"},
	"collection.totalValue":        {English: "Total Collection Value", Spanish: "Valor Total de la Colección"},
	"collection.numberOfCards":     {English: "Number of Cards", Spanish: "Número de Cartas"},
	"collection.lastUpdated":       {English: "Last Updated", Spanish: "Última Actualización"},
	"collection.cardsInCollection": {English: "Cards in Collection", Spanish: "Cartas en la Colección"},
	"collection.notFound":          {English: "Collection not found", Spanish: "Colección no encontrada"},
	"collection.empty":             {English: "No cards in this collection yet", Spanish: "Aún no hay cartas en esta colección"},
	"collection.linkCopied":        {English: "Link copied to clipboard", Spanish: "Enlace copiado al portapapeles"},
	"collection.cardAdded":         {English: "Card added", Spanish: "Carta agregada"},
	"collection.cardRemoved":       {English: "Card removed", Spanish: "Carta eliminada"},
	"collection.rateUpdated":       {English: "Exchange rate updated", Spanish: "Tasa de cambio actualizada"},
	"collection.history":           {English: "Value History", Spanish: "Historial de Valor"},

	// Card table
	"card.name":      {English: "Name", Spanish: "Nombre"},
	"card.setNumber": {English: "Set #", Spanish: "Set #"},
	"card.setName":   {English: "Set Name", Spanish: "Nombre del Set"},
	"card.condition": {English: "Condition", Spanish: "Condición"},
	"card.language":  {English: "Language", Spanish: "Idioma"},
	"card.version":   {English: "Version", Spanish: "Versión"},
	"card.quantity":  {English: "Quantity", Spanish: "Cantidad"},
	"card.value":     {English: "Value", Spanish: "Valor"},

	// Export
	"export.saved":    {English: "PDF saved to %s", Spanish: "PDF guardado en %s"},
	"export.failed":   {English: "Could not export PDF", Spanish: "No se pudo exportar el PDF"},
	"export.subtitle": {English: "Collection report", Spanish: "Reporte de colección"},

	// Session
	"auth.loggedIn":       {English: "Logged in as %s", Spanish: "Sesión iniciada como %s"},
	"auth.signedUp":       {English: "Account created for %s", Spanish: "Cuenta creada para %s"},
	"auth.loggedOut":      {English: "Logged out", Spanish: "Sesión cerrada"},
	"auth.accountDeleted": {English: "Account deleted", Spanish: "Cuenta eliminada"},
	"auth.loginRequired":  {English: "Please log in first", Spanish: "Por favor inicia sesión primero"},

	// Import
	"import.notImplemented": {English: "Bulk import is not available yet", Spanish: "La importación masiva aún no está disponible"},

	// Common
	"common.back":  {English: "Back", Spanish: "Volver"},
	"common.error": {English: "Something went wrong", Spanish: "Algo salió mal"},
}
