package postgres

// Affects expone affects para las pruebas del paquete externo.
var Affects = affects
