package dto

// ResetDatosRequest guards the destructive reset behind an explicit phrase.
type ResetDatosRequest struct {
	Confirmacion string `json:"confirmacion" validate:"required,eq=REINICIAR DATOS"`
}

type ResetDatosResponse struct {
	Contratos      int64 `json:"contratos"`
	Empleados      int64 `json:"empleados"`
	Liquidaciones  int64 `json:"liquidaciones"`
	TiposComision  int64 `json:"tipos_comision"`
	Empresas       int64 `json:"empresas"`
}
