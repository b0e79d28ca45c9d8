package i18n

// Message keys for the fallback texts shown when the server sends no message.
const (
	CartLoginRequired = "cart.login_required"
	CartAddSuccess    = "cart.add_success"
	CartAddFailed     = "cart.add_failed"
	CartUpdateSuccess = "cart.update_success"
	CartUpdateFailed  = "cart.update_failed"
	CartRemoveSuccess = "cart.remove_success"
	CartRemoveFailed  = "cart.remove_failed"

	ShelfLoginRequiredTitle    = "shelf.login_required_title"
	ShelfLoginRequired         = "shelf.login_required"
	ShelfQuantityRequiredTitle = "shelf.quantity_required_title"
	ShelfQuantityRequired      = "shelf.quantity_required"
	ShelfAddedTitle            = "shelf.added_title"
	ShelfAdded                 = "shelf.added"
	ShelfFetchFailed           = "shelf.fetch_failed"

	ShopFetchFailed         = "shop.fetch_failed"
	ShopFetchProductsFailed = "shop.fetch_products_failed"

	AuthFillRequired        = "auth.fill_required"
	AuthPasswordMismatch    = "auth.password_mismatch"
	AuthPasswordTooShort    = "auth.password_too_short"
	AuthLoginSuccess        = "auth.login_success"
	AuthLoginFailed         = "auth.login_failed"
	AuthRegisterSuccess     = "auth.register_success"
	AuthRegisterFailed      = "auth.register_failed"
	AuthCodeIncomplete      = "auth.code_incomplete"
	AuthCodeVerified        = "auth.code_verified"
	AuthCodeInvalid         = "auth.code_invalid"
	AuthCodeSent            = "auth.code_sent"
	AuthCodeSendFailed      = "auth.code_send_failed"
	AuthResendWait          = "auth.resend_wait"
	AuthPasswordReset       = "auth.password_reset"
	AuthPasswordResetFailed = "auth.password_reset_failed"
	ProfilePleaseLogin      = "profile.please_login"
	ProfileFetchFailed      = "profile.fetch_failed"
	ProfileUpdated          = "profile.updated"
	ProfileUpdateFailed     = "profile.update_failed"
	ProfilePasswordChanged  = "profile.password_changed"
	ProfilePasswordFailed   = "profile.password_failed"
	ProfileLoggedOut        = "profile.logged_out"
	ProfileLogoutFailed     = "profile.logout_failed"

	OrdersCheckoutSuccess = "orders.checkout_success"
	OrdersCheckoutFailed  = "orders.checkout_failed"
	OrdersFillRequired    = "orders.fill_required"
	OrdersFetchFailed     = "orders.fetch_failed"
	OrdersDetailsFailed   = "orders.details_failed"
	OrdersCancelSuccess   = "orders.cancel_success"
	OrdersCancelFailed    = "orders.cancel_failed"
	OrdersNotCancellable  = "orders.not_cancellable"
	OrdersExportFailed    = "orders.export_failed"

	ContactFillRequired = "contact.fill_required"
	ContactSent         = "contact.sent"
	ContactFailed       = "contact.failed"

	ErrorNetwork    = "error.network"
	ErrorUnexpected = "error.unexpected"
)

var catalog = map[string]map[string]string{
	English: {
		CartLoginRequired: "Please login first",
		CartAddSuccess:    "Product added to cart",
		CartAddFailed:     "Failed to add product to cart",
		CartUpdateSuccess: "Quantity updated",
		CartUpdateFailed:  "Failed to update quantity",
		CartRemoveSuccess: "Product removed from cart",
		CartRemoveFailed:  "Failed to remove product from cart",

		ShelfLoginRequiredTitle:    "Login required",
		ShelfLoginRequired:         "You need to login before adding books to the cart",
		ShelfQuantityRequiredTitle: "Quantity required",
		ShelfQuantityRequired:      "Please choose a quantity greater than zero",
		ShelfAddedTitle:            "Added",
		ShelfAdded:                 "The book was added to your cart",
		ShelfFetchFailed:           "Failed to load books",

		ShopFetchFailed:         "Something went wrong while loading data",
		ShopFetchProductsFailed: "Failed to load products",

		AuthFillRequired:        "Please fill all required fields",
		AuthPasswordMismatch:    "Passwords do not match",
		AuthPasswordTooShort:    "Password must be at least 6 characters",
		AuthLoginSuccess:        "Logged in successfully",
		AuthLoginFailed:         "Login failed",
		AuthRegisterSuccess:     "Account created, please verify your phone",
		AuthRegisterFailed:      "Registration failed",
		AuthCodeIncomplete:      "Please enter the full verification code",
		AuthCodeVerified:        "Code verified",
		AuthCodeInvalid:         "Invalid verification code",
		AuthCodeSent:            "Verification code sent",
		AuthCodeSendFailed:      "Failed to send verification code",
		AuthResendWait:          "Please wait before requesting a new code",
		AuthPasswordReset:       "Password changed, you can login now",
		AuthPasswordResetFailed: "Failed to change password",
		ProfilePleaseLogin:      "Please login first",
		ProfileFetchFailed:      "Failed to fetch profile data",
		ProfileUpdated:          "Profile updated",
		ProfileUpdateFailed:     "Failed to update profile",
		ProfilePasswordChanged:  "Password updated",
		ProfilePasswordFailed:   "Failed to update password",
		ProfileLoggedOut:        "Logged out",
		ProfileLogoutFailed:     "Failed to logout",

		OrdersCheckoutSuccess: "Order placed successfully",
		OrdersCheckoutFailed:  "Failed to place order",
		OrdersFillRequired:    "Please choose a city, a region and an address",
		OrdersFetchFailed:     "Failed to fetch orders",
		OrdersDetailsFailed:   "Failed to fetch order details",
		OrdersCancelSuccess:   "Order cancelled",
		OrdersCancelFailed:    "Failed to cancel order",
		OrdersNotCancellable:  "Only pending orders can be cancelled",
		OrdersExportFailed:    "Could not export your orders",

		ContactFillRequired: "Please fill all required fields",
		ContactSent:         "Message sent successfully",
		ContactFailed:       "Failed to send message",

		ErrorNetwork:    "Could not reach the server",
		ErrorUnexpected: "Something went wrong",
	},
	Arabic: {
		CartLoginRequired: "يرجى تسجيل الدخول أولاً",
		CartAddSuccess:    "تم إضافة المنتج للكارت",
		CartAddFailed:     "فشل في إضافة المنتج للكارت",
		CartUpdateSuccess: "تم تحديث الكمية",
		CartUpdateFailed:  "فشل في تحديث الكمية",
		CartRemoveSuccess: "تم حذف المنتج من الكارت",
		CartRemoveFailed:  "فشل في حذف المنتج من الكارت",

		ShelfLoginRequiredTitle:    "تسجيل الدخول مطلوب",
		ShelfLoginRequired:         "يجب عليك تسجيل الدخول أولاً لإضافة الكتب إلى السلة",
		ShelfQuantityRequiredTitle: "الكمية مطلوبة",
		ShelfQuantityRequired:      "يرجى تحديد كمية أكبر من صفر",
		ShelfAddedTitle:            "تم الإضافة بنجاح",
		ShelfAdded:                 "تم إضافة الكتاب إلى السلة بنجاح",
		ShelfFetchFailed:           "فشل في جلب الكتب",

		ShopFetchFailed:         "حدث خطأ أثناء جلب البيانات",
		ShopFetchProductsFailed: "فشل في جلب المنتجات",

		AuthFillRequired:        "يرجى ملء جميع الحقول المطلوبة",
		AuthPasswordMismatch:    "كلمتا المرور غير متطابقتين",
		AuthPasswordTooShort:    "يجب أن تكون كلمة المرور 6 أحرف على الأقل",
		AuthLoginSuccess:        "تم تسجيل الدخول بنجاح",
		AuthLoginFailed:         "فشل تسجيل الدخول",
		AuthRegisterSuccess:     "تم إنشاء الحساب، يرجى تأكيد رقم الهاتف",
		AuthRegisterFailed:      "فشل إنشاء الحساب",
		AuthCodeIncomplete:      "يرجى إدخال رمز التحقق كاملاً",
		AuthCodeVerified:        "تم التحقق من الرمز",
		AuthCodeInvalid:         "رمز التحقق غير صحيح",
		AuthCodeSent:            "تم إرسال رمز التحقق",
		AuthCodeSendFailed:      "فشل في إرسال رمز التحقق",
		AuthResendWait:          "يرجى الانتظار قبل طلب رمز جديد",
		AuthPasswordReset:       "تم تغيير كلمة المرور، يمكنك تسجيل الدخول الآن",
		AuthPasswordResetFailed: "فشل في تغيير كلمة المرور",
		ProfilePleaseLogin:      "يرجى تسجيل الدخول أولاً",
		ProfileFetchFailed:      "فشل في جلب بيانات الملف الشخصي",
		ProfileUpdated:          "تم تحديث الملف الشخصي",
		ProfileUpdateFailed:     "فشل في تحديث الملف الشخصي",
		ProfilePasswordChanged:  "تم تحديث كلمة المرور",
		ProfilePasswordFailed:   "فشل في تحديث كلمة المرور",
		ProfileLoggedOut:        "تم تسجيل الخروج",
		ProfileLogoutFailed:     "فشل في تسجيل الخروج",

		OrdersCheckoutSuccess: "تم إرسال الطلب بنجاح",
		OrdersCheckoutFailed:  "فشل في إتمام الطلب",
		OrdersFillRequired:    "يرجى اختيار المدينة والمنطقة وكتابة العنوان",
		OrdersFetchFailed:     "فشل في جلب الطلبات",
		OrdersDetailsFailed:   "فشل في جلب تفاصيل الطلب",
		OrdersCancelSuccess:   "تم إلغاء الطلب",
		OrdersCancelFailed:    "فشل في إلغاء الطلب",
		OrdersNotCancellable:  "يمكن إلغاء الطلبات قيد الانتظار فقط",
		OrdersExportFailed:    "تعذر تصدير طلباتك",

		ContactFillRequired: "يرجى ملء جميع الحقول المطلوبة",
		ContactSent:         "تم إرسال الرسالة بنجاح",
		ContactFailed:       "فشل في إرسال الرسالة",

		ErrorNetwork:    "تعذر الاتصال بالخادم",
		ErrorUnexpected: "حدث خطأ ما",
	},
}

// T returns the text for key in lang, falling back to English and then to the key itself.
func T(lang, key string) string {
	if msg, ok := catalog[lang][key]; ok {
		return msg
	}
	if msg, ok := catalog[English][key]; ok {
		return msg
	}
	return key
}

// Or returns serverMessage when it is set, otherwise the localized fallback.
func Or(serverMessage, lang, key string) string {
	if serverMessage != "" {
		return serverMessage
	}
	return T(lang, key)
}
