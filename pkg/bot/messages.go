package bot

// User-facing copy. The audience is Colombian, so every message is Spanish.
const (
	msgAuctionConcluded  = "La subasta ha concluido. Agradecemos su interés."
	msgAuctionNotStarted = "La subasta aún no ha comenzado. Estará disponible el %s."

	msgSignupNotStarted = "El periodo para registrarse en la subasta aún no ha comenzado. Estará disponible a partir del %s."
	msgSignupEnded      = "El proceso de registro para participar en la subasta ha terminado. Agradecemos su interés."

	msgWelcome = "¡Bienvenido(a) a la subasta del canon de arrendamiento de %s!"

	msgTermsLink   = "Antes de participar en la subasta, es necesario que revise y acepte los términos y condiciones relacionados con el uso de este bot y el proceso de subasta. Puede consultarlos en el siguiente enlace:\n%s"
	msgTermsRetry  = "Por favor, acepte los términos y condiciones (%s) para continuar."
	msgTermsAccept = "Acepto"

	msgTermsSigned = "Antes de participar en la subasta, es necesario que lea y acepte los términos y condiciones sobre el uso de este bot y el proceso de subasta. Para ello, debe diligenciar a mano el documento adjunto."
	msgTermsSignedSingleDoc = "Recuerde que debe diligenciar un único documento, incluyendo a todas las personas a cuyo nombre se elaborará el contrato de arrendamiento en caso de resultar ganadores. Las pujas durante la subasta deberán realizarse exclusivamente desde el número de WhatsApp desde el cual se envió dicho documento."
	msgTermsSignedDeadline  = "Una vez haya diligenciado el documento, por favor escanee todas sus páginas y adjúntelas en un único archivo PDF en este chat. Recuerde que el plazo máximo para enviar el documento es %s."
	msgTermsFilename        = "Formato de Oferta.pdf"

	msgDocumentReceived   = "El documento ha sido recibido y se está procesando. Le notificaremos cuando esté listo para participar en la subasta."
	msgDocumentOnly       = "En este momento solo debe enviar el documento de términos y condiciones como un único archivo PDF. No envíe otros mensajes o archivos."
	msgDocumentResend     = "Ya hemos recibido un documento anteriormente. Si necesita enviar una versión corregida, por favor adjúntela como un único archivo PDF. Si ya envió la versión correcta, le notificaremos próximas acciones una vez hayamos revisado su documentación."
	msgMediaFetchFailed   = "No se pudo obtener el archivo. Por favor, intente nuevamente."
	msgDocumentSaveFailed = "No se pudo procesar el archivo en este momento. Por favor, intente nuevamente."

	msgDocumentTypePrompt = "Para continuar, seleccione el tipo de su documento de identidad:\n\n%s"
	msgDocumentPrompt     = "Por favor, ingrese su número de %s sin puntos ni espacios:"
	msgDocumentInvalid    = "El formato del %s no parece ser válido. Por favor verifique e intente nuevamente:"
	msgDocumentConfirm    = "¿Es correcto su número de documento: %s?"

	msgNamePrompt  = "Por favor, ingrese su nombre completo:"
	msgNameInvalid = "Por favor ingrese su nombre completo (nombre y apellido):"
	msgNameConfirm = "¿Es correcto su nombre: %s?"

	msgEmailPrompt  = "Por favor, ingrese su correo electrónico:"
	msgEmailInvalid = "El formato del correo electrónico no es válido. Por favor ingrese un correo electrónico válido:"
	msgEmailConfirm = "¿Es correcto su correo electrónico: %s?"

	msgAddressPrompt  = "Por favor, ingrese su dirección completa:"
	msgAddressInvalid = "Por favor ingrese una dirección válida:"
	msgAddressConfirm = "¿Es correcta su dirección: %s?"

	msgCityPrompt  = "Por favor, ingrese su ciudad de residencia:"
	msgCityInvalid = "Por favor ingrese una ciudad válida:"
	msgCityConfirm = "¿Es correcta su ciudad: %s?"

	msgConfirmYes      = "Sí, es correcto"
	msgConfirmYesFem   = "Sí, es correcta"
	msgConfirmNo       = "No, corregir"

	msgMenuHighestBidder = "Usted es el oferente más alto. ¡Buena suerte! ¿Desea configurar próximas notificaciones?"
	msgMenuWithBids      = "La subasta está en curso. La oferta más alta es de %s. ¿Desea realizar la próxima oferta por %s o configurar próximas notificaciones?"
	msgMenuNoBids        = "La subasta está en curso. Hasta el momento no se ha realizado ninguna oferta. ¿Desea ofertar %s o configurar próximas notificaciones?"
	msgBtnOffer          = "Ofertar"
	msgBtnNotifications  = "Notificaciones"

	msgAlreadyHighest = "Usted es el oferente más alto. ¡Buena suerte!"
	msgOfferPropose   = "¿Esta seguro que desea ofertar %s?"
	msgOfferConfirm   = "¿Desea confirmar su oferta de %s?"
	msgOfferYes       = "Sí"
	msgOfferNo        = "No"

	msgOfferOutbid     = "Su oferta de %s no es la más alta. La oferta más alta es de %s. Por favor, realice una nueva oferta."
	msgOfferOutOfRange = "Su oferta de %s no es válida. Debe estar entre %s y %s."
	msgOfferRegistered = "Su oferta de %s ha sido registrada. ¡Buena suerte!"

	msgNotificationsPrompt   = "¿Desea recibir notificaciones cuando haya nuevas ofertas?"
	msgNotificationsEnabled  = "Las notificaciones han sido habilitadas. ¡Buena suerte!"
	msgNotificationsDisabled = "Las notificaciones han sido deshabilitadas. ¡Buena suerte!"
	msgSubscribeFailed       = "No se pudo habilitar la suscripción a las notificaciones. Por favor, inténtelo más tarde."
	msgUnsubscribeFailed     = "No se pudo deshabilitar la suscripción a las notificaciones. Por favor, inténtelo más tarde."
)

// Button ids. Inbound interactive replies are matched against these.
const (
	btnAcceptTerms = "accept_terms"

	btnConfirmDocYes     = "confirm_doc_yes"
	btnConfirmDocNo      = "confirm_doc_no"
	btnConfirmNameYes    = "confirm_name_yes"
	btnConfirmNameNo     = "confirm_name_no"
	btnConfirmEmailYes   = "confirm_email_yes"
	btnConfirmEmailNo    = "confirm_email_no"
	btnConfirmAddressYes = "confirm_address_yes"
	btnConfirmAddressNo  = "confirm_address_no"
	btnConfirmCityYes    = "confirm_city_yes"
	btnConfirmCityNo     = "confirm_city_no"

	btnOffer                = "offer"
	btnManageNotifications  = "manage_notifications"
	btnConfirmOffer         = "confirm_offer"
	btnCancelOffer          = "cancel_offer"
	btnEnableNotifications  = "enable_notifications"
	btnDisableNotifications = "disable_notifications"
)
